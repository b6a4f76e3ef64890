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

package common

import (
	"fmt"
	"github.com/google/uuid"
	"time"
)

func FirstNonEmpty(values ...string) string {
	for _, value := range values {
		if value != "" {
			return value
		}
	}

	return ""
}

func FirstPositive[T int | int64 | time.Duration](values ...T) T {
	for _, value := range values {
		if value > 0 {
			return value
		}
	}

	return 0
}

// Deduplicate keeps the first occurrence of every value, preserving order.
func Deduplicate(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	unique := make([]string, 0, len(values))

	for _, value := range values {
		if _, ok := seen[value]; ok {
			continue
		}

		seen[value] = struct{}{}
		unique = append(unique, value)
	}

	return unique
}

func ConvertNumberToHumanReadable(value int) string {
	const kilo = 1000
	const mega = 1000000
	const giga = 1000000000
	const tera = 1000000000000
	values := []float64{kilo, mega, giga, tera}
	prefixes := []string{"k", "M", "G", "T"}

	for index, limit := range values {
		if float64(value) < limit {
			index--
			if index < 0 {
				return fmt.Sprintf("%d", value)
			}

			return fmt.Sprintf("%.2f%s", float64(value)/values[index], prefixes[index])
		}
	}

	return fmt.Sprintf("%d", value)
}

// NewScanID identifies one uploaded payload across logs and responses.
func NewScanID() string {
	return uuid.New().String()
}
