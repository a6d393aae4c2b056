package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/iov-one/ledger"
	"github.com/iov-one/ledger/app"
	"github.com/iov-one/ledger/x/escrow"
	"github.com/iov-one/ledger/x/token"
)

// entry is a well known address. Bump is only set for program derived
// addresses.
type entry struct {
	name string
	addr ledger.Address
	bump *uint8
}

type lister func() ([]entry, error)

var listers = map[string]lister{
	"programs": func() ([]entry, error) {
		return []entry{
			{name: "system", addr: ledger.SystemProgramID},
			{name: "sysvar", addr: app.SysvarProgramID},
			{name: "token", addr: token.ProgramID},
			{name: "escrow", addr: escrow.ProgramID},
		}, nil
	},
	"sysvars": func() ([]entry, error) {
		return []entry{
			{name: "rent", addr: ledger.SysvarRentID},
		}, nil
	},
	"authorities": func() ([]entry, error) {
		addr, bump, err := escrow.Authority(escrow.ProgramID)
		if err != nil {
			return nil, err
		}
		return []entry{
			{name: "escrow", addr: addr, bump: &bump},
		}, nil
	},
}

//nolint
func main() {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	headerFl := fl.Bool("header", true, "Display header")
	hrpFl := fl.String("hrp", "", "Print bech32 addresses with given prefix instead of hex")
	fl.Usage = func() {
		fmt.Fprintf(os.Stderr, `Usage:
	%s <group> [options]

Print well known addresses of selected group.

Available groups are: %s

All program and sysvar addresses are derived from their names, and
program authorities from fixed seeds. That means that those addresses are
deterministic and can be referenced when creating a genesis file.

`, os.Args[0], listerNames())
		fl.PrintDefaults()
	}
	fl.Parse(os.Args[1:])

	if fl.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "Group name is required.")
		fmt.Fprintf(os.Stderr, "Available groups: %s\n", listerNames())
		os.Exit(2)
	}

	list, ok := listers[fl.Args()[0]]
	if !ok {
		fmt.Fprintln(os.Stderr, "Unknown name.")
		os.Exit(2)
	}
	entries, err := list()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Cannot list addresses: %s\n", err)
		os.Exit(1)
	}
	if err := printAddresses(os.Stdout, entries, *headerFl, *hrpFl); err != nil {
		fmt.Fprintf(os.Stderr, "Cannot print addresses: %s\n", err)
		os.Exit(1)
	}
}

func listerNames() string {
	var names []string
	for n := range listers {
		names = append(names, n)
	}
	sort.Strings(names)
	return strings.Join(names, ", ")
}

func printAddresses(out io.Writer, entries []entry, header bool, hrp string) error {
	w := tabwriter.NewWriter(out, 2, 0, 2, ' ', 0)
	defer w.Flush()

	if header {
		fmt.Fprintln(w, "name\taddress\tbump")
	}
	for _, e := range entries {
		a := e.addr.String()
		if hrp != "" {
			b, err := e.addr.Bech32(hrp)
			if err != nil {
				return err
			}
			a = b
		}
		bump := "-"
		if e.bump != nil {
			bump = fmt.Sprint(*e.bump)
		}
		fmt.Fprintf(w, "%s\t%s\t%s\n", e.name, a, bump)
	}
	return nil
}
