// Package service reads the cargo_vendor entry of an Open Build Service
// _service file.
package service

import (
	"encoding/xml"
	"errors"
	"fmt"
	"os"
	"strings"
)

// FileName is the OBS service definition file inside a package checkout.
const FileName = "_service"

// Name identifies the cargo vendoring service.
const Name = "cargo_vendor"

// ErrNoCargoVendor is returned when _service lacks a cargo_vendor entry.
var ErrNoCargoVendor = errors.New("package is not set up for cargo vendor")

type document struct {
	Services []struct {
		Name   string `xml:"name,attr"`
		Mode   string `xml:"mode,attr"`
		Params []struct {
			Name  string `xml:"name,attr"`
			Value string `xml:",chardata"`
		} `xml:"param"`
	} `xml:"service"`
}

// Params are the cargo_vendor service parameters relevant to updating.
// Update defaults to true, as in the service itself.
type Params struct {
	Update      bool
	SrcTar      string
	SrcDir      string
	Compression string
	Mode        string
}

// Load reads path and returns the cargo_vendor parameters.
func Load(path string) (*Params, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path is inside the package checkout
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", FileName, err)
	}
	return Parse(data)
}

// Parse parses _service content.
func Parse(data []byte) (*Params, error) {
	var doc document
	if err := xml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parsing %s XML: %w", FileName, err)
	}
	for _, svc := range doc.Services {
		if svc.Name != Name {
			continue
		}
		p := &Params{Mode: svc.Mode, Update: true}
		for _, param := range svc.Params {
			v := strings.TrimSpace(param.Value)
			switch param.Name {
			case "update":
				p.Update = v != "false"
			case "srctar":
				p.SrcTar = v
			case "srcdir":
				p.SrcDir = v
			case "compression":
				p.Compression = v
			}
		}
		return p, nil
	}
	return nil, ErrNoCargoVendor
}

// ResolveSrcTar returns the source tarball file name within pkgDir. An
// explicit srctar wins; otherwise the single tarball whose name starts with
// srcdir is chosen, ignoring vendor tarballs and signatures.
func (p *Params) ResolveSrcTar(pkgDir string) (string, error) {
	if p.SrcTar != "" {
		return p.SrcTar, nil
	}
	if p.SrcDir == "" {
		return "", fmt.Errorf("%s: neither srctar nor srcdir is set", FileName)
	}

	entries, err := os.ReadDir(pkgDir)
	if err != nil {
		return "", err
	}
	var candidates []string
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasPrefix(name, p.SrcDir) || !strings.Contains(name, ".tar") {
			continue
		}
		if strings.Contains(name, "vendor") || strings.HasSuffix(name, ".asc") {
			continue
		}
		candidates = append(candidates, name)
	}
	if len(candidates) != 1 {
		return "", fmt.Errorf("cannot decide which tarball to use in %s: %v", pkgDir, candidates)
	}
	return candidates[0], nil
}
