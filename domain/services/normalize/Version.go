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

package normalize

import (
	"clam-eye/domain/entities"
	"fmt"
	"strconv"
	"strings"
	"time"
)

const enginePrefix = "ClamAV "

// ParseVersion reads the banner returned by VERSION or --version,
// e.g. "ClamAV 1.2.0/27000/Mon Oct 12 08:00:00 2026".
func ParseVersion(raw string) (entities.EngineVersion, error) {
	banner := clean(raw)
	if !strings.HasPrefix(banner, enginePrefix) {
		return entities.EngineVersion{}, entities.NewParseError("", raw, "unrecognized version banner")
	}

	parts := strings.SplitN(banner, "/", 3)
	version := entities.EngineVersion{
		Engine: strings.TrimSpace(strings.TrimPrefix(parts[0], enginePrefix)),
		Raw:    banner,
	}

	if len(parts) > 1 {
		signatures, err := strconv.Atoi(strings.TrimSpace(parts[1]))
		if err != nil {
			return entities.EngineVersion{}, entities.NewParseError("", raw, fmt.Sprintf("invalid signature version %q", parts[1]))
		}

		version.Signatures = signatures
	}

	if len(parts) > 2 {
		date, err := time.Parse(time.ANSIC, strings.TrimSpace(parts[2]))
		if err != nil {
			return entities.EngineVersion{}, entities.NewParseError("", raw, fmt.Sprintf("invalid signature date %q", parts[2]))
		}

		version.SignatureDate = date
	}

	return version, nil
}
