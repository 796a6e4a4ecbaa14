package course

import (
	"encoding/json"
	"strings"
)

// School is one of the Claremont consortium institutions
type School int

const (
	NA School = iota
	ClaremontMckenna
	Pitzer
	Pomona
	HarveyMudd
	Scripps
	Keck
	ClaremontGraduate
)

// Schools lists every real institution, NA excluded
var Schools = []School{ClaremontMckenna, Pitzer, Pomona, HarveyMudd, Scripps, Keck, ClaremontGraduate}

var schoolCodes = map[School]string{
	ClaremontMckenna:  "CM",
	Pitzer:            "PZ",
	Pomona:            "PO",
	HarveyMudd:        "HM",
	Scripps:           "SC",
	Keck:              "KG",
	ClaremontGraduate: "CG",
	NA:                "NA",
}

var schoolNames = map[School]string{
	ClaremontMckenna:  "ClaremontMckenna",
	Pitzer:            "Pitzer",
	Pomona:            "Pomona",
	HarveyMudd:        "HarveyMudd",
	Scripps:           "Scripps",
	Keck:              "Keck",
	ClaremontGraduate: "ClaremontGraduate",
	NA:                "NA",
}

// SchoolFromCode maps the two and three letter codes used by the feeds to a School.
// Anything unknown is NA.
func SchoolFromCode(code string) School {
	switch strings.ToUpper(strings.TrimSpace(code)) {
	case "CM", "CMC":
		return ClaremontMckenna
	case "PZ", "PIZ":
		return Pitzer
	case "PO", "POM":
		return Pomona
	case "HM", "HMC":
		return HarveyMudd
	case "SC", "SCR", "SCP":
		return Scripps
	case "KG", "KEC", "KGI":
		return Keck
	case "CG", "CGU":
		return ClaremontGraduate
	}
	return NA
}

// SchoolFromName is the inverse of String
func SchoolFromName(name string) School {
	for s, n := range schoolNames {
		if strings.EqualFold(n, name) {
			return s
		}
	}
	return SchoolFromCode(name)
}

// Code returns the two letter code, e.g. "HM"
func (s School) Code() string {
	if c, ok := schoolCodes[s]; ok {
		return c
	}
	return "NA"
}

func (s School) String() string {
	if n, ok := schoolNames[s]; ok {
		return n
	}
	return "NA"
}

func (s School) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

func (s *School) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err != nil {
		return err
	}
	*s = SchoolFromName(name)
	return nil
}
