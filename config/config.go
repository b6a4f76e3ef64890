/*
 *    Copyright 2023 iFood
 *
 *    Licensed under the Apache License, Version 2.0 (the "License");
 *    you may not use this file except in compliance with the License.
 *    You may obtain a copy of the License at
 *
 *      http://www.apache.org/licenses/LICENSE-2.0
 *
 *    Unless required by applicable law or agreed to in writing, software
 *    distributed under the License is distributed on an "AS IS" BASIS,
 *    WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 *    See the License for the specific language governing permissions and
 *    limitations under the License.
 */

package config

import (
	"bytes"
	"errors"
	"fmt"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
	"os"
	"strings"
)

const (
	defaultPort           = 3000
	defaultMaxRequestSize = 52428800
	defaultMaxStreamSize  = 26214400
	defaultClamdPort      = 3310
	defaultTimeout        = 60000
	defaultDaemonWorkers  = 4
	defaultClamscanPath   = "/usr/bin/clamscan"
	defaultClamdscanPath  = "/usr/bin/clamdscan"
	defaultPreference     = "clamdscan"
	maxPort               = 65535
)

type AppConfig struct {
	Scanner    Scanner
	HTTPServer HTTPServer
}

type HTTPServer struct {
	AuthorizationKeys []string
	Profiler          bool
	Metrics           bool
	MaxRequestSize    int
	Port              int
}

type Scanner struct {
	RemoveInfected     bool
	QuarantineInfected string
	ScanLog            string
	DebugLog           bool
	FileList           string
	ScanRecursively    bool
	FollowSymlinks     bool
	IncludeHidden      bool
	Exclude            []string
	MaxStreamSize      int64 // Bytes spooled to disk when the engine cannot ingest streams
	TempDir            string
	MaxDatabaseAge     int // Hours, zero disables the freshness check
	Preference         string
	Clamscan           Clamscan
	Clamdscan          Clamdscan
}

type Clamscan struct {
	Path         string
	DB           string
	ScanArchives bool
	Active       bool
	Concurrency  int
	Timeout      int // Milliseconds, zero means no limit
}

type Clamdscan struct {
	Socket        string
	Host          string
	Port          int
	Timeout       int // Milliseconds
	LocalFallback bool
	Path          string
	ConfigFile    string
	Multiscan     bool
	ReloadDB      bool
	Active        bool
	BypassTest    bool
	Concurrency   int
	Persistent    bool
}

func NewConfig() *AppConfig {
	return &AppConfig{
		Scanner: Scanner{
			ScanRecursively: true,
			MaxStreamSize:   defaultMaxStreamSize,
			Preference:      defaultPreference,
			Clamscan: Clamscan{
				Path:         defaultClamscanPath,
				ScanArchives: true,
				Active:       true,
				Concurrency:  1,
			},
			Clamdscan: Clamdscan{
				Port:          defaultClamdPort,
				Timeout:       defaultTimeout,
				LocalFallback: true,
				Path:          defaultClamdscanPath,
				Multiscan:     true,
				Active:        true,
				Concurrency:   defaultDaemonWorkers,
			},
		},
		HTTPServer: HTTPServer{
			Port:           defaultPort,
			MaxRequestSize: defaultMaxRequestSize,
			Metrics:        true,
		},
	}
}

func validateConfig(config AppConfig) error {
	if config.HTTPServer.Port <= 0 || config.HTTPServer.Port > maxPort {
		return fmt.Errorf("invalid http server port %d", config.HTTPServer.Port)
	}

	if config.HTTPServer.MaxRequestSize <= 0 {
		return fmt.Errorf("max request size must be positive")
	}

	if config.Scanner.MaxStreamSize < 0 || config.Scanner.MaxDatabaseAge < 0 {
		return fmt.Errorf("scanner limits must not be negative")
	}

	if config.Scanner.Clamscan.Timeout < 0 || config.Scanner.Clamdscan.Timeout < 0 {
		return fmt.Errorf("scanner timeouts must not be negative")
	}

	if config.Scanner.Clamdscan.Port < 0 || config.Scanner.Clamdscan.Port > maxPort {
		return fmt.Errorf("invalid clamd port %d", config.Scanner.Clamdscan.Port)
	}

	return nil
}

// LoadConfig merges defaults, an optional config file and environment variables.
// When file is empty the usual config directories are searched and a missing file is fine.
// see supershal approach https://github.com/spf13/viper/issues/188
func LoadConfig(file string) (AppConfig, error) {
	const keyDelimiter = "/"
	v := viper.NewWithOptions(viper.KeyDelimiter(keyDelimiter))

	// set default values in viper.
	// Viper needs to know if a key exists in order to override it.
	b, err := yaml.Marshal(NewConfig())
	if err != nil {
		return AppConfig{}, err
	}

	if file != "" {
		v.SetConfigFile(file)
	} else {
		v.AddConfigPath(os.Getenv("CONFIG_DIR"))
		v.AddConfigPath("../resources/")
		v.AddConfigPath(".")
		v.AddConfigPath("/etc/clam-eye/")
		v.SetConfigName("config")
	}

	v.SetConfigType("yaml")

	if err := v.MergeConfig(bytes.NewReader(b)); err != nil {
		return AppConfig{}, err
	}

	if err := v.MergeInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if file != "" || !errors.As(err, &notFound) {
			return AppConfig{}, fmt.Errorf("failed to read config. %w", err)
		}
	}

	// tell viper to overwrite env variables
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(keyDelimiter, "_"))

	config := AppConfig{}
	if err := v.Unmarshal(&config); err != nil {
		return AppConfig{}, err
	}

	if err := validateConfig(config); err != nil {
		return AppConfig{}, err
	}

	return config, nil
}
