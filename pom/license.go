// Copyright 2024 Google LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package pom

import "strings"

// License is the canonical license enumeration a raw, free-form license
// name is mapped to.
type License int

const (
	LicenseUnknown License = iota
	LicenseApache2
	LicenseMIT
	LicenseBSD3
	LicenseGPL2
	LicenseGPL3
	LicenseLGPL21
	LicenseEPL1
	LicenseMPL2
)

func (l License) String() string {
	switch l {
	case LicenseApache2:
		return "Apache-2.0"
	case LicenseMIT:
		return "MIT"
	case LicenseBSD3:
		return "BSD-3-Clause"
	case LicenseGPL2:
		return "GPL-2.0"
	case LicenseGPL3:
		return "GPL-3.0"
	case LicenseLGPL21:
		return "LGPL-2.1"
	case LicenseEPL1:
		return "EPL-1.0"
	case LicenseMPL2:
		return "MPL-2.0"
	default:
		return "Unknown"
	}
}

// knownLicenseNames maps the common free-form license names found in
// pom.xml <licenses> blocks to their canonical form. Unknown names map to
// LicenseUnknown rather than failing, per spec.
var knownLicenseNames = map[string]License{
	"apache license, version 2.0":            LicenseApache2,
	"apache license 2.0":                     LicenseApache2,
	"the apache software license, version 2.0": LicenseApache2,
	"apache-2.0":                             LicenseApache2,
	"mit license":                            LicenseMIT,
	"the mit license":                        LicenseMIT,
	"mit":                                    LicenseMIT,
	"bsd 3-clause license":                   LicenseBSD3,
	"bsd-3-clause":                           LicenseBSD3,
	"gnu general public license, version 2":  LicenseGPL2,
	"gpl-2.0":                                LicenseGPL2,
	"gnu general public license, version 3":  LicenseGPL3,
	"gpl-3.0":                                LicenseGPL3,
	"gnu lesser general public license, version 2.1": LicenseLGPL21,
	"lgpl-2.1":                               LicenseLGPL21,
	"eclipse public license, version 1.0":    LicenseEPL1,
	"epl-1.0":                                LicenseEPL1,
	"mozilla public license, version 2.0":    LicenseMPL2,
	"mpl-2.0":                                LicenseMPL2,
}

// CanonicalLicense maps a raw license name from a pom.xml <license> element
// to the canonical License enumeration, returning LicenseUnknown for
// anything it does not recognize.
func CanonicalLicense(name string) License {
	if l, ok := knownLicenseNames[strings.ToLower(strings.TrimSpace(name))]; ok {
		return l
	}
	return LicenseUnknown
}
