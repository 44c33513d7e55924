// Command-line entry point for the scope package toolchain.
//
// Three commands cover the pipeline:
//
//	dump    - parse a sector (.sct) file, plus its .ese when present,
//	          and print the in-memory model as JSON
//	compile - load a EuroScope profile (.prf) or a vNAS/CRC facility
//	          (.json) with everything it references and export a scope
//	          package archive
//	load    - parse a sector file and store its catalogue in SQLite
//
// Malformed lines inside an input file are reported to stderr but never
// abort a run: the parsers keep whatever they could read.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"scopepack/internal/crc"
	"scopepack/internal/ese"
	"scopepack/internal/profile"
	"scopepack/internal/scopepack"
	"scopepack/internal/sector"
	"scopepack/internal/storage"
)

func usage(w io.Writer) {
	fmt.Fprintln(w, "scopepack - EuroScope sector file toolchain:")
	fmt.Fprintln(w, "  dump     - parse a .sct file and output the model as JSON")
	fmt.Fprintln(w, "  compile  - build a scope package archive from a .prf profile")
	fmt.Fprintln(w, "  load     - parse a .sct file into a SQLite catalogue")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  scopepack dump -input sector.sct [-ese sector.ese] [-output out.json] [-pretty] [-stats]")
	fmt.Fprintln(w, "  scopepack compile -profile scope.prf -output scope.atcpkg")
	fmt.Fprintln(w, "  scopepack compile -crc facility.json -output scope.atcpkg")
	fmt.Fprintln(w, "  scopepack load -input sector.sct -db catalogue.db")
	fmt.Fprintln(w, "")
}

func main() {
	if len(os.Args) < 2 {
		usage(os.Stderr)
		os.Exit(2)
	}
	cmd := strings.ToLower(os.Args[1])
	switch cmd {
	case "dump":
		runDump(os.Args[2:])
	case "compile":
		runCompile(os.Args[2:])
	case "load":
		runLoad(os.Args[2:])
	case "-h", "--help", "help":
		usage(os.Stdout)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", cmd)
		usage(os.Stderr)
		os.Exit(2)
	}
}

func readSector(path string) (*sector.Sector, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open input: %w", err)
	}
	defer f.Close()
	return sector.NewReader(f).Read()
}

func reportErrors(path string, errs []sector.ParseError) {
	for _, e := range errs {
		fmt.Fprintf(os.Stderr, "%s:%d: %s: %s\n", path, e.Line, e.Kind, e.Text)
	}
}

type dumpOut struct {
	Sector *sector.Sector `json:"sector"`
	Ese    *ese.Ese       `json:"ese,omitempty"`
}

func runDump(args []string) {
	fs := flag.NewFlagSet("dump", flag.ExitOnError)
	inPath := fs.String("input", "", "Input sector (.sct) file")
	esePath := fs.String("ese", "", "Companion .ese file (default: input with .ese extension, if it exists)")
	outPath := fs.String("output", "", "Output JSON file (default: stdout)")
	pretty := fs.Bool("pretty", false, "Pretty-print JSON output")
	showStats := fs.Bool("stats", false, "Print entity counters to stderr")
	_ = fs.Parse(args)

	if *inPath == "" {
		fmt.Fprintln(os.Stderr, "dump: -input is required")
		os.Exit(2)
	}

	sct, err := readSector(*inPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to read sector file: %v\n", err)
		os.Exit(1)
	}
	reportErrors(*inPath, sct.Errors)

	out := dumpOut{Sector: sct}

	ePath := *esePath
	if ePath == "" {
		candidate := strings.TrimSuffix(*inPath, filepath.Ext(*inPath)) + ".ese"
		if _, err := os.Stat(candidate); err == nil {
			ePath = candidate
		}
	}
	if ePath != "" {
		f, err := os.Open(ePath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to open ese file: %v\n", err)
			os.Exit(1)
		}
		parsed, err := ese.NewReader(f).Read()
		f.Close()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to read ese file: %v\n", err)
			os.Exit(1)
		}
		reportErrors(ePath, parsed.Errors)
		out.Ese = parsed
	}

	var w io.Writer = os.Stdout
	if *outPath != "" {
		f, err := os.Create(*outPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to create output: %v\n", err)
			os.Exit(1)
		}
		defer f.Close()
		w = f
	}

	enc := json.NewEncoder(w)
	if *pretty {
		enc.SetIndent("", "  ")
	}
	if err := enc.Encode(out); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to write output: %v\n", err)
		os.Exit(1)
	}

	if *showStats {
		fmt.Fprintf(os.Stderr, "airports=%d vors=%d ndbs=%d fixes=%d regions=%d labels=%d errors=%d\n",
			len(sct.Airports), len(sct.VORs), len(sct.NDBs), len(sct.Fixes),
			len(sct.Regions), len(sct.Labels), len(sct.Errors))
	}
}

func runCompile(args []string) {
	fs := flag.NewFlagSet("compile", flag.ExitOnError)
	prfPath := fs.String("profile", "", "EuroScope profile (.prf) file")
	crcPath := fs.String("crc", "", "vNAS/CRC facility (.json) file")
	outPath := fs.String("output", "", "Output archive file")
	_ = fs.Parse(args)

	if (*prfPath == "") == (*crcPath == "") || *outPath == "" {
		fmt.Fprintln(os.Stderr, "compile: -output and exactly one of -profile or -crc are required")
		os.Exit(2)
	}

	var pkg *scopepack.Package
	if *prfPath != "" {
		res, err := profile.Load(*prfPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to load profile: %v\n", err)
			os.Exit(1)
		}
		for id, bundle := range res.Sectors {
			reportErrors(id, bundle.Sector.Errors)
			if bundle.Ese != nil {
				reportErrors(id, bundle.Ese.Errors)
			}
		}
		pkg = scopepack.FromProfile(res)
	} else {
		facility, err := crc.ReadPackage(*crcPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to load facility: %v\n", err)
			os.Exit(1)
		}
		pkg, err = scopepack.FromCRC(facility)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to assemble package: %v\n", err)
			os.Exit(1)
		}
	}

	f, err := os.Create(*outPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create output: %v\n", err)
		os.Exit(1)
	}
	defer f.Close()

	if err := pkg.Export(f); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to export package: %v\n", err)
		os.Exit(1)
	}

	fmt.Fprintf(os.Stderr, "wrote %s: maps=%d symbols=%d facilities=%d\n",
		*outPath, len(pkg.Maps), len(pkg.Symbols), len(pkg.Facilities))
}

func runLoad(args []string) {
	fs := flag.NewFlagSet("load", flag.ExitOnError)
	inPath := fs.String("input", "", "Input sector (.sct) file")
	dbPath := fs.String("db", "", "SQLite catalogue file")
	_ = fs.Parse(args)

	if *inPath == "" || *dbPath == "" {
		fmt.Fprintln(os.Stderr, "load: -input and -db are required")
		os.Exit(2)
	}

	sct, err := readSector(*inPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to read sector file: %v\n", err)
		os.Exit(1)
	}
	reportErrors(*inPath, sct.Errors)

	db, err := storage.Open(*dbPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to open database: %v\n", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := db.StoreSector(*inPath, sct); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to store sector: %v\n", err)
		os.Exit(1)
	}

	stats, err := db.GetStats()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to read stats: %v\n", err)
		os.Exit(1)
	}
	fmt.Fprintf(os.Stderr, "stored %s: waypoints=%d errors=%d\n",
		*inPath, stats.TotalWaypoints, stats.TotalErrors)
}
