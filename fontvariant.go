// Copyright 2024 The OpenFPV Project
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

package osd

import "fmt"

// FontVariant identifies the character and icon set an OSD recording
// was made with. It selects the marker tile tables used to locate
// named OSD items.
type FontVariant int

const (
	FontGeneric FontVariant = iota
	FontArdupilot
	FontBetaflight
	FontINAV
	FontKISSUltra
	FontUnknown
)

// FontVariants lists every known variant.
var FontVariants = []FontVariant{
	FontGeneric, FontArdupilot, FontBetaflight, FontINAV, FontKISSUltra, FontUnknown,
}

func (v FontVariant) String() string {
	switch v {
	case FontGeneric:
		return "Generic"
	case FontArdupilot:
		return "Ardupilot"
	case FontBetaflight:
		return "Betaflight"
	case FontINAV:
		return "INAV"
	case FontKISSUltra:
		return "KISSUltra"
	case FontUnknown:
		return "Unknown"
	}
	return fmt.Sprintf("FontVariant(%d)", int(v))
}

// SetIdent returns the font set identifier used in font file names
// for the variant, or "" when the variant uses the generic set.
func (v FontVariant) SetIdent() string {
	switch v {
	case FontArdupilot:
		return "ardu"
	case FontINAV:
		return "inav"
	case FontBetaflight:
		return "bf"
	case FontKISSUltra:
		return "ultra"
	}
	return ""
}

// fontVariantFromDJIID maps the DJI header font variant byte.
func fontVariantFromDJIID(id byte) FontVariant {
	switch id {
	case 0:
		return FontGeneric
	case 1:
		return FontBetaflight
	case 2:
		return FontINAV
	case 3:
		return FontArdupilot
	case 4:
		return FontKISSUltra
	}
	return FontUnknown
}

// fontVariantFromWSATag maps the 4 character ASCII tag of Walksnail
// Avatar file headers.
func fontVariantFromWSATag(tag string) FontVariant {
	switch tag {
	case "INAV":
		return FontINAV
	case "ARDU":
		return FontArdupilot
	}
	return FontUnknown
}
