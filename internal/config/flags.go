package config

import (
	"errors"
	"flag"
	"net"
	"strconv"
	"strings"
	"time"
)

// NetAddress holds structured network address data for host and port.
// It implements the flag.Value interface.
type NetAddress struct {
	Host string
	Port int
}

// ParseFlags parses all configuration flags.
//
// Flags:
//
//	-a server address in format [host]:[port]
//	-tls-address TLS server address in format [host]:[port]
//	-cert-file / -key-file TLS certificate material
//	-d database DSN
//	-driver database driver (postgres, sqlite)
//	-data-dir file store root directory
//	-quota per-account quota in bytes
//	-verify-email require email verification for new accounts
//	-c/-config json file path with configs
//	-request-timeout request timeout (e.g., "30s", "1m")
func ParseFlags() *StructuredConfig {
	var serverAddress, tlsAddress NetAddress
	var certFile, keyFile string
	var databaseDSN string
	var driver string
	var dataDir string
	var quotaBytes int64
	var verifyEmail bool
	var jsonConfigPath string
	var requestTimeout time.Duration

	flag.Var(&serverAddress, "a", "Net address host:port")
	flag.Var(&tlsAddress, "tls-address", "TLS net address host:port")
	flag.StringVar(&certFile, "cert-file", "", "TLS certificate file")
	flag.StringVar(&keyFile, "key-file", "", "TLS private key file")
	flag.StringVar(&databaseDSN, "d", "", "Database DSN")
	flag.StringVar(&driver, "driver", "", "Database driver (postgres, sqlite)")
	flag.StringVar(&dataDir, "data-dir", "", "File store root directory")
	flag.Int64Var(&quotaBytes, "quota", 0, "Per-account storage quota in bytes")
	flag.BoolVar(&verifyEmail, "verify-email", false, "Require email verification")
	flag.StringVar(&jsonConfigPath, "c", "", "JSON config file path")
	flag.StringVar(&jsonConfigPath, "config", "", "JSON config file path (alias)")
	flag.DurationVar(&requestTimeout, "request-timeout", 0, "Request timeout (e.g., 30s, 1m)")

	flag.Parse()

	return &StructuredConfig{
		App: App{
			VerifyEmail: verifyEmail,
			QuotaBytes:  quotaBytes,
		},
		Storage: Storage{
			Driver:  driver,
			DSN:     databaseDSN,
			DataDir: dataDir,
		},
		Server: Server{
			HTTPAddress:    serverAddress.String(),
			TLSAddress:     tlsAddress.String(),
			CertFile:       certFile,
			KeyFile:        keyFile,
			RequestTimeout: requestTimeout,
		},
		JSONFilePath: jsonConfigPath,
	}
}

// String returns a canonical host:port string for a NetAddress.
// If neither Host nor Port are set, it returns an empty string.
func (a *NetAddress) String() string {
	if a.Host == "" && a.Port == 0 {
		return ""
	}

	return a.Host + ":" + strconv.Itoa(a.Port)
}

// Set parses the input string of form host:port and populates the NetAddress.
// It validates the port range, checks IP correctness unless host is "localhost",
// and returns an error if the format or values are invalid.
func (a *NetAddress) Set(s string) error {
	hostAndPort := strings.Split(s, ":")
	if len(hostAndPort) != 2 {
		return errors.New("need address in a form `host:port`")
	}

	host := hostAndPort[0]
	port, err := strconv.Atoi(hostAndPort[1])
	if err != nil {
		return err
	}

	if port < 1 {
		return errors.New("port number is a positive integer")
	}

	if host != "localhost" && host != "" {
		ip := net.ParseIP(hostAndPort[0])
		if ip == nil {
			return errors.New("incorrect IP-address provided")
		}
	}

	a.Host = host
	a.Port = port
	return nil
}
