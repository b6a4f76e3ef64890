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

package entities

import "time"

type Preference string

const (
	PreferSubprocess Preference = "clamscan"
	PreferDaemon     Preference = "clamdscan"
)

func (p Preference) Valid() bool {
	return p == PreferSubprocess || p == PreferDaemon
}

type ClamscanOptions struct {
	Path         string
	DB           string
	ScanArchives bool
	Active       bool
	Concurrency  int
	Timeout      time.Duration
}

type ClamdscanOptions struct {
	Socket        string
	Host          string
	Port          int
	Timeout       time.Duration
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

// UsesSocket tells whether clamd is reached directly instead of through the clamdscan binary.
func (c ClamdscanOptions) UsesSocket() bool {
	return c.Socket != "" || c.Host != ""
}

// ScanOptions is the resolved configuration of one orchestrator instance.
// It is passed by value and never mutated after resolution.
type ScanOptions struct {
	RemoveInfected     bool
	QuarantineInfected string
	ScanLog            string
	Debug              bool
	FileList           string
	ScanRecursively    bool
	FollowSymlinks     bool
	IncludeHidden      bool
	Exclude            []string
	MaxStreamSize      int64
	TempDir            string
	MaxDatabaseAge     time.Duration
	Preference         Preference
	Demoted            bool // Daemon was preferred but unreachable, clamscan is used instead
	Clamscan           ClamscanOptions
	Clamdscan          ClamdscanOptions
}

// DaemonSelected tells whether the resolved transport is the daemon.
func (o ScanOptions) DaemonSelected() bool {
	return o.Preference == PreferDaemon && o.Clamdscan.Active && !o.Demoted
}

// FallbackEnabled tells whether daemon failures may be replayed on clamscan.
func (o ScanOptions) FallbackEnabled() bool {
	return o.DaemonSelected() && o.Clamdscan.LocalFallback && o.Clamscan.Active
}
