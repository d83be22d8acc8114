// meshtool is a CLI utility for inspecting mesh feature IDs in glTF and
// GLB assets.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"

	"github.com/Faultbox/tilemesh/internal/config"
	"github.com/Faultbox/tilemesh/internal/inspect"
	"github.com/Faultbox/tilemesh/internal/logger"
	"github.com/Faultbox/tilemesh/pkg/gltf"
	"github.com/Faultbox/tilemesh/pkg/meshfeatures"
	"github.com/Faultbox/tilemesh/pkg/picking"
)

func main() {
	config.ParseFlags()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}

	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		fmt.Fprintf(os.Stderr, "Logger error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	args := flag.Args()
	if len(args) < 1 {
		printUsage()
		os.Exit(1)
	}

	command := args[0]
	args = args[1:]

	switch command {
	case "info":
		cmdInfo(cfg, args)
	case "sets":
		cmdSets(cfg, args)
	case "face":
		cmdFace(cfg, args)
	case "vertex":
		cmdVertex(cfg, args)
	case "pick":
		cmdPick(cfg, args)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`meshtool - glTF mesh feature ID inspector

Usage:
  meshtool [options] <command> [command options]

Commands:
  info <asset>                       Show document summary and feature ID sets
  sets <asset> [-kind k]             List feature ID sets per primitive
  face <asset> <primitive> <face>    Resolve feature IDs for a face
  vertex <asset> <primitive> <vtx>   Resolve feature IDs for a vertex
  pick <asset> <primitive> -origin x,y,z -dir x,y,z
                                     Cast a ray and resolve the hit face

Options:
  -config path   Configuration file
  -format f      Output format: text or json
  -compact       Compact JSON output
  -debug         Debug logging

Examples:
  meshtool info building.glb
  meshtool sets building.glb -kind texture
  meshtool face building.glb 0 12
  meshtool -format json pick building.glb 0 -origin 0,0,10 -dir 0,0,-1`)
}

func cmdInfo(cfg *config.Config, args []string) {
	fs := flag.NewFlagSet("info", flag.ExitOnError)
	fs.Parse(args)

	if fs.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "Usage: meshtool info <asset>")
		os.Exit(1)
	}

	doc, path := openDocument(cfg, fs.Arg(0))
	report := inspect.Document(doc, path)

	if cfg.Output.JSON() {
		if err := report.WriteJSON(os.Stdout, cfg.Output.Pretty); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}
	report.WriteText(os.Stdout)
}

func cmdSets(cfg *config.Config, args []string) {
	fs := flag.NewFlagSet("sets", flag.ExitOnError)
	kind := fs.String("kind", "", "Only show sets of this kind (attribute, texture, implicit)")
	fs.Parse(args)

	if fs.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "Usage: meshtool sets <asset> [-kind k]")
		os.Exit(1)
	}

	doc, path := openDocument(cfg, fs.Arg(0))
	report := inspect.Document(doc, path)

	if *kind != "" {
		filtered := report.Primitives[:0]
		for _, prim := range report.Primitives {
			sets := prim.Sets[:0:0]
			for _, set := range prim.Sets {
				if strings.EqualFold(set.Kind, *kind) {
					sets = append(sets, set)
				}
			}
			prim.Sets = sets
			filtered = append(filtered, prim)
		}
		report.Primitives = filtered
	}

	if cfg.Output.JSON() {
		if err := report.WriteJSON(os.Stdout, cfg.Output.Pretty); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}
	for i := range report.Primitives {
		if i > 0 {
			fmt.Println()
		}
		report.Primitives[i].WriteText(os.Stdout)
	}
}

func cmdFace(cfg *config.Config, args []string) {
	fs := flag.NewFlagSet("face", flag.ExitOnError)
	mesh := fs.Int("mesh", 0, "Mesh index")
	fs.Parse(args)

	if fs.NArg() < 3 {
		fmt.Fprintln(os.Stderr, "Usage: meshtool face <asset> <primitive> <face>")
		os.Exit(1)
	}

	doc, _ := openDocument(cfg, fs.Arg(0))
	features := primitiveFeatures(doc, *mesh, parseIndex(fs.Arg(1), "primitive"))
	face := int64(parseIndex(fs.Arg(2), "face"))
	first := features.FirstVertexFromFace(face)

	result := resolution{Face: &face, FirstVertex: &first}
	for i, set := range features.Sets() {
		result.IDs = append(result.IDs, idRow{
			Set:   i,
			Kind:  set.Kind().String(),
			Label: set.Label(),
			ID:    features.FeatureIDFromFace(set, face),
		})
	}
	printResolution(cfg, result)
}

func cmdVertex(cfg *config.Config, args []string) {
	fs := flag.NewFlagSet("vertex", flag.ExitOnError)
	mesh := fs.Int("mesh", 0, "Mesh index")
	fs.Parse(args)

	if fs.NArg() < 3 {
		fmt.Fprintln(os.Stderr, "Usage: meshtool vertex <asset> <primitive> <vertex>")
		os.Exit(1)
	}

	doc, _ := openDocument(cfg, fs.Arg(0))
	features := primitiveFeatures(doc, *mesh, parseIndex(fs.Arg(1), "primitive"))
	vertex := int64(parseIndex(fs.Arg(2), "vertex"))

	result := resolution{Vertex: &vertex}
	for i, set := range features.Sets() {
		result.IDs = append(result.IDs, idRow{
			Set:   i,
			Kind:  set.Kind().String(),
			Label: set.Label(),
			ID:    set.FeatureIDForVertex(vertex),
		})
	}
	printResolution(cfg, result)
}

func cmdPick(cfg *config.Config, args []string) {
	fs := flag.NewFlagSet("pick", flag.ExitOnError)
	mesh := fs.Int("mesh", 0, "Mesh index")
	origin := fs.String("origin", "", "Ray origin as x,y,z")
	dir := fs.String("dir", "", "Ray direction as x,y,z")
	fs.Parse(args)

	if fs.NArg() < 2 || *origin == "" || *dir == "" {
		fmt.Fprintln(os.Stderr, "Usage: meshtool pick <asset> <primitive> -origin x,y,z -dir x,y,z")
		os.Exit(1)
	}

	doc, _ := openDocument(cfg, fs.Arg(0))
	features := primitiveFeatures(doc, *mesh, parseIndex(fs.Arg(1), "primitive"))

	ray := picking.NewRay(parseVec3(*origin, "origin"), parseVec3(*dir, "dir"))
	face, hit := features.FaceFromRay(ray)
	if !hit {
		if cfg.Output.JSON() {
			fmt.Println(`{"hit":false}`)
			return
		}
		fmt.Println("no hit")
		return
	}

	first := features.FirstVertexFromFace(face)
	result := resolution{Hit: true, Face: &face, FirstVertex: &first}
	for i, set := range features.Sets() {
		result.IDs = append(result.IDs, idRow{
			Set:   i,
			Kind:  set.Kind().String(),
			Label: set.Label(),
			ID:    features.FeatureIDFromFace(set, face),
		})
	}
	printResolution(cfg, result)
}

// resolution is the output of a face, vertex, or pick query. Vertex is
// set for vertex queries, Face and FirstVertex for face and pick ones.
type resolution struct {
	Hit         bool    `json:"hit,omitempty"`
	Face        *int64  `json:"face,omitempty"`
	FirstVertex *int64  `json:"firstVertex,omitempty"`
	Vertex      *int64  `json:"vertex,omitempty"`
	IDs         []idRow `json:"ids"`
}

type idRow struct {
	Set   int    `json:"set"`
	Kind  string `json:"kind"`
	Label string `json:"label,omitempty"`
	ID    int64  `json:"id"`
}

func printResolution(cfg *config.Config, result resolution) {
	if cfg.Output.JSON() {
		enc := json.NewEncoder(os.Stdout)
		if cfg.Output.Pretty {
			enc.SetIndent("", "  ")
		}
		if err := enc.Encode(result); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	if result.Vertex != nil {
		fmt.Printf("vertex %d\n", *result.Vertex)
	} else {
		fmt.Printf("face %d: first vertex %d\n", *result.Face, *result.FirstVertex)
	}
	if len(result.IDs) == 0 {
		fmt.Println("  no feature ID sets")
		return
	}
	for _, row := range result.IDs {
		label := ""
		if row.Label != "" {
			label = fmt.Sprintf(" %q", row.Label)
		}
		fmt.Printf("  set %d %s%s -> %d\n", row.Set, row.Kind, label, row.ID)
	}
}

// openDocument loads an asset, trying the configured search paths when
// the path does not resolve directly.
func openDocument(cfg *config.Config, path string) (*gltf.Document, string) {
	candidates := []string{path}
	if !filepath.IsAbs(path) {
		for _, dir := range cfg.Data.SearchPaths {
			candidates = append(candidates, filepath.Join(dir, path))
		}
	}

	for _, candidate := range candidates {
		if _, err := os.Stat(candidate); err != nil {
			continue
		}
		doc, err := gltf.Open(candidate)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		logger.Debug("loaded document",
			zap.String("path", candidate),
			zap.Int("meshes", len(doc.Meshes)))
		return doc, candidate
	}

	fmt.Fprintf(os.Stderr, "Asset not found: %s (searched %v)\n", path, cfg.Data.SearchPaths)
	os.Exit(1)
	return nil, ""
}

func primitiveFeatures(doc *gltf.Document, meshIndex, primIndex int) *meshfeatures.PrimitiveFeatures {
	if meshIndex < 0 || meshIndex >= len(doc.Meshes) {
		fmt.Fprintf(os.Stderr, "Mesh %d out of range (document has %d)\n", meshIndex, len(doc.Meshes))
		os.Exit(1)
	}
	mesh := &doc.Meshes[meshIndex]
	if primIndex < 0 || primIndex >= len(mesh.Primitives) {
		fmt.Fprintf(os.Stderr, "Primitive %d out of range (mesh %d has %d)\n", primIndex, meshIndex, len(mesh.Primitives))
		os.Exit(1)
	}

	features, err := meshfeatures.NewPrimitiveFeatures(doc, &mesh.Primitives[primIndex])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	return features
}

func parseIndex(s, what string) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Invalid %s index: %s\n", what, s)
		os.Exit(1)
	}
	return n
}

func parseVec3(s, what string) mgl32.Vec3 {
	parts := strings.Split(s, ",")
	if len(parts) != 3 {
		fmt.Fprintf(os.Stderr, "Invalid %s: %s (want x,y,z)\n", what, s)
		os.Exit(1)
	}
	var v mgl32.Vec3
	for i, part := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(part), 32)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Invalid %s: %s (want x,y,z)\n", what, s)
			os.Exit(1)
		}
		v[i] = float32(f)
	}
	return v
}
