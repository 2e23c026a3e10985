package io

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/matzehuels/lockgraph/pkg/graph"
)

var checksumKindToString = map[graph.ChecksumKind]string{
	graph.ChecksumTarball:   "tarball",
	graph.ChecksumRepackZip: "repack-zip",
}

type document struct {
	Root          graph.PackageID   `json:"root"`
	Members       []graph.PackageID `json:"workspace_members"`
	Packages      []pkg             `json:"packages"`
	Edges         []edge            `json:"edges"`
	Installations []installation    `json:"installations"`
}

type pkg struct {
	ID         graph.PackageID `json:"id"`
	Name       string          `json:"name,omitempty"`
	Version    string          `json:"version,omitempty"`
	Source     source          `json:"source"`
	Checksums  []checksum      `json:"checksums,omitempty"`
	Derivation *derivation     `json:"derivation,omitempty"`
}

type source struct {
	Kind string `json:"kind"`
	URL  string `json:"url,omitempty"`
}

type checksum struct {
	Kind      string `json:"kind"`
	Integrity string `json:"integrity"`
}

type derivation struct {
	From           graph.PackageID `json:"from"`
	PatchPath      string          `json:"patch_path,omitempty"`
	PatchIntegrity string          `json:"patch_integrity,omitempty"`
}

type edge struct {
	Kind      string          `json:"kind"`
	From      graph.PackageID `json:"from"`
	On        graph.PackageID `json:"on"`
	Alias     string          `json:"alias,omitempty"`
	Specifier string          `json:"specifier,omitempty"`
}

type installation struct {
	Package graph.PackageID `json:"package"`
	Path    string          `json:"path"`
}

// WriteJSON encodes a graph as JSON and writes it to w.
// The output includes every package, edge and installation.
func WriteJSON(g *graph.Graph, w io.Writer) error {
	out := document{
		Root:          g.RootID(),
		Members:       append([]graph.PackageID{}, g.WorkspaceMembers()...),
		Packages:      make([]pkg, 0, g.Len()),
		Edges:         make([]edge, 0, g.EdgeCount()),
		Installations: make([]installation, 0, len(g.Installations())),
	}

	for _, id := range g.PackageIDs() {
		p, _ := g.Package(id)
		pk := pkg{
			ID:      id,
			Name:    p.Name.String(),
			Version: p.Version,
			Source:  source{Kind: p.Source.Kind.String(), URL: p.Source.URL},
		}
		for _, c := range p.Checksums {
			pk.Checksums = append(pk.Checksums, checksum{Kind: checksumKindToString[c.Kind], Integrity: c.Integrity})
		}
		if d := p.Derivation; d != nil {
			pk.Derivation = &derivation{From: d.From, PatchPath: d.PatchPath, PatchIntegrity: d.PatchIntegrity}
		}
		out.Packages = append(out.Packages, pk)
	}

	for _, e := range g.Edges() {
		ed := edge{Kind: e.Kind.String(), From: e.From, On: e.On, Alias: e.Alias.String()}
		if e.Specifier != nil {
			ed.Specifier = e.Specifier.String()
		}
		out.Edges = append(out.Edges, ed)
	}

	for _, inst := range g.Installations() {
		out.Installations = append(out.Installations, installation{Package: inst.Package, Path: inst.Path.String()})
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// ExportJSON writes a graph to a JSON file at path.
// This is a convenience wrapper around [WriteJSON] for file-based output.
func ExportJSON(g *graph.Graph, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return WriteJSON(g, f)
}
