// Pyrite CLI - inspect the runtime and store value snapshots
package main

import (
	"encoding/hex"
	"flag"
	"fmt"
	"os"
	"strconv"

	"github.com/tliron/commonlog"

	"github.com/pyrite-lang/pyrite/manifest"
	"github.com/pyrite-lang/pyrite/store"
	"github.com/pyrite-lang/pyrite/vm"

	_ "github.com/tliron/commonlog/simple"
)

func main() {
	verbosity := flag.Int("v", 0, "Log verbosity (0 = quiet)")
	info := flag.Bool("info", false, "Dump the bootstrapped class registry and exit")
	storePath := flag.String("store", "", "Snapshot store path (overrides pyrite.toml)")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: pyrite [options] [command]\n\n")
		fmt.Fprintf(os.Stderr, "Commands:\n")
		fmt.Fprintf(os.Stderr, "  put BYTE...   Construct a byte buffer, snapshot it, store it\n")
		fmt.Fprintf(os.Stderr, "  get HASH      Load a stored snapshot and print its repr\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  pyrite -info              # Show the built-in classes\n")
		fmt.Fprintf(os.Stderr, "  pyrite put 104 105        # Store b'hi', print its address\n")
		fmt.Fprintf(os.Stderr, "  pyrite get 8f43...        # Print the value stored there\n")
	}
	flag.Parse()

	v := *verbosity
	m, err := manifest.FindAndLoad(".")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: error loading pyrite.toml: %v\n", err)
	}
	if m != nil && v == 0 {
		v = m.Runtime.LogVerbosity
	}
	commonlog.Configure(v, nil)

	ctx := vm.NewContext()

	if *info {
		dumpClasses(ctx)
		return
	}

	args := flag.Args()
	if len(args) == 0 {
		flag.Usage()
		os.Exit(2)
	}

	switch args[0] {
	case "put":
		err = runPut(ctx, openStore(m, *storePath), args[1:])
	case "get":
		err = runGet(ctx, openStore(m, *storePath), args[1:])
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", args[0])
		os.Exit(2)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func dumpClasses(ctx *vm.Context) {
	for _, c := range ctx.Classes.All() {
		base := "-"
		if c.Base != nil {
			base = c.Base.Name
		}
		fmt.Printf("%-16s base=%-16s ops=%v\n", c.Name, base, c.Table().Names())
	}
}

func openStore(m *manifest.Manifest, override string) *store.Store {
	path := override
	if path == "" {
		if m != nil {
			path = m.StorePath()
		} else {
			path = "snapshots.db"
		}
	}
	s, err := store.Open(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	return s
}

// runPut constructs a byte buffer through the full construction protocol,
// so out-of-range arguments fail the same way they would in hosted code.
func runPut(ctx *vm.Context, s *store.Store, args []string) error {
	defer s.Close()

	items := make([]*vm.Object, len(args))
	for i, a := range args {
		n, err := strconv.ParseInt(a, 10, 64)
		if err != nil {
			return fmt.Errorf("argument %d: %w", i, err)
		}
		items[i] = ctx.NewInt(n)
	}

	obj, err := ctx.Construct(ctx.BytesClass, ctx.NewList(items))
	if err != nil {
		return err
	}

	snap, err := ctx.SnapshotValue(obj)
	if err != nil {
		return err
	}
	data, err := vm.MarshalSnapshot(snap)
	if err != nil {
		return err
	}
	hash, err := vm.SnapshotHash(snap)
	if err != nil {
		return err
	}
	if err := s.Put(hash, data); err != nil {
		return err
	}

	if r, err := ctx.Repr(obj); err == nil {
		fmt.Printf("%s\n", r)
	}
	fmt.Printf("%x\n", hash)
	return nil
}

func runGet(ctx *vm.Context, s *store.Store, args []string) error {
	defer s.Close()

	if len(args) != 1 {
		return fmt.Errorf("get takes exactly one hash argument")
	}
	raw, err := hex.DecodeString(args[0])
	if err != nil || len(raw) != 32 {
		return fmt.Errorf("%q is not a valid content address", args[0])
	}
	var hash [32]byte
	copy(hash[:], raw)

	data, err := s.Get(hash)
	if err != nil {
		return err
	}
	snap, err := vm.UnmarshalSnapshot(data)
	if err != nil {
		return err
	}
	obj, err := ctx.RestoreValue(snap)
	if err != nil {
		return err
	}
	r, err := ctx.Repr(obj)
	if err != nil {
		return err
	}
	fmt.Printf("%s\n", r)
	return nil
}
