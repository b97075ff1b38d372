package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

type StructuredJSONConfig struct {
	App struct {
		VerifyEmail   bool   `json:"verify_email"`
		BcryptCost    int    `json:"bcrypt_cost"`
		QuotaBytes    int64  `json:"quota_bytes"`
		FrontEndURL   string `json:"front_end_url"`
		ResetPagePath string `json:"reset_page_path"`
	} `json:"app,omitempty"`

	Storage struct {
		Driver  string `json:"driver"`
		DSN     string `json:"dsn"`
		DataDir string `json:"data_dir"`
	} `json:"storage,omitempty"`

	Server struct {
		HTTPAddress    string   `json:"http_address"`
		TLSAddress     string   `json:"tls_address"`
		CertFile       string   `json:"cert_file"`
		KeyFile        string   `json:"key_file"`
		RequestTimeout Duration `json:"request_timeout"`
		AllowedOrigins []string `json:"allowed_origins"`
	} `json:"server,omitempty"`

	Mailer struct {
		Transport    string `json:"transport"`
		From         string `json:"from"`
		SMTPHost     string `json:"smtp_host"`
		SMTPPort     int    `json:"smtp_port"`
		SMTPUsername string `json:"smtp_username"`
		SMTPPassword string `json:"smtp_password"`
		HTTPEndpoint string `json:"http_endpoint"`
		HTTPToken    string `json:"http_token"`
	} `json:"mailer,omitempty"`

	Janitor struct {
		Interval      Duration `json:"interval"`
		MaxPendingAge Duration `json:"max_pending_age"`
	} `json:"janitor,omitempty"`
}

func parseJSON(jsonFilePath string) (*StructuredConfig, error) {
	jsonFile, err := os.Open(jsonFilePath)
	if err != nil {
		return nil, fmt.Errorf("error reading a json file: %w", err)
	}
	defer jsonFile.Close()

	var jsonCfg StructuredJSONConfig
	if err := json.NewDecoder(jsonFile).Decode(&jsonCfg); err != nil {
		return nil, fmt.Errorf("error decoding json configs: %w", err)
	}

	cfg := &StructuredConfig{
		App: App{
			VerifyEmail:   jsonCfg.App.VerifyEmail,
			BcryptCost:    jsonCfg.App.BcryptCost,
			QuotaBytes:    jsonCfg.App.QuotaBytes,
			FrontEndURL:   jsonCfg.App.FrontEndURL,
			ResetPagePath: jsonCfg.App.ResetPagePath,
		},
		Storage: Storage{
			Driver:  jsonCfg.Storage.Driver,
			DSN:     jsonCfg.Storage.DSN,
			DataDir: jsonCfg.Storage.DataDir,
		},
		Server: Server{
			HTTPAddress:    jsonCfg.Server.HTTPAddress,
			TLSAddress:     jsonCfg.Server.TLSAddress,
			CertFile:       jsonCfg.Server.CertFile,
			KeyFile:        jsonCfg.Server.KeyFile,
			RequestTimeout: time.Duration(jsonCfg.Server.RequestTimeout),
			AllowedOrigins: jsonCfg.Server.AllowedOrigins,
		},
		Mailer: Mailer{
			Transport:    jsonCfg.Mailer.Transport,
			From:         jsonCfg.Mailer.From,
			SMTPHost:     jsonCfg.Mailer.SMTPHost,
			SMTPPort:     jsonCfg.Mailer.SMTPPort,
			SMTPUsername: jsonCfg.Mailer.SMTPUsername,
			SMTPPassword: jsonCfg.Mailer.SMTPPassword,
			HTTPEndpoint: jsonCfg.Mailer.HTTPEndpoint,
			HTTPToken:    jsonCfg.Mailer.HTTPToken,
		},
		Janitor: Janitor{
			Interval:      time.Duration(jsonCfg.Janitor.Interval),
			MaxPendingAge: time.Duration(jsonCfg.Janitor.MaxPendingAge),
		},
		JSONFilePath: "",
	}

	return cfg, nil
}

// Duration is a wrapper around time.Duration that supports JSON unmarshaling from strings like "1h", "30s"
type Duration time.Duration

func (d *Duration) UnmarshalJSON(b []byte) error {
	var v interface{}
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}

	switch value := v.(type) {
	case float64:
		*d = Duration(time.Duration(value))
		return nil
	case string:
		tmp, err := time.ParseDuration(value)
		if err != nil {
			return err
		}
		*d = Duration(tmp)
		return nil
	default:
		return json.Unmarshal(b, (*time.Duration)(d))
	}
}

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}
