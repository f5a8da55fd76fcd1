package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"hmc14/pkg/assembler"
	"hmc14/pkg/output"
)

var helpvar bool
var debugvar bool

const usage = "hmc14asm [-debug] FILE [FILE...]"

func init() {
	log.SetFlags(0)
	log.SetOutput(os.Stderr)
}

func init() {
	flag.BoolVar(&helpvar, "help", false, "Displays command usage")
	flag.BoolVar(
		&debugvar, "debug", false,
		"Also emit a '.tbl' symbol table listing alongside the object file",
	)
	flag.Parse()
}

func hmc14asm() int {
	if helpvar {
		fmt.Println(usage)
		flag.PrintDefaults()
		return 0
	}

	args := flag.Args()
	if len(args) < 1 {
		log.Println(usage)
		return 1
	}

	exit := 0
	for _, base := range args {
		if !assembleOne(base) {
			exit = 1
		}
	}
	return exit
}

func assembleOne(base string) bool {
	infile := base + ".as"
	log.SetPrefix(fmt.Sprintf("%s: ", infile))

	raw, err := os.ReadFile(infile)
	if err != nil {
		log.Println(err)
		return false
	}

	res := assembler.Assemble(infile, string(raw))

	if !res.OK() {
		for _, d := range res.Diagnostics {
			log.Println(d.String())
		}
		return false
	}

	for _, d := range res.Diagnostics {
		log.Println(d.String())
	}

	if err := output.WriteObject(base+".ob", res); err != nil {
		log.Println(err)
		return false
	}

	if len(res.Entries) > 0 {
		if err := output.WriteEntries(base+".ent", res.Entries); err != nil {
			log.Println(err)
			return false
		}
	}

	if len(res.Externs) > 0 {
		if err := output.WriteExterns(base+".ext", res.Externs); err != nil {
			log.Println(err)
			return false
		}
	}

	if debugvar {
		if err := output.WriteSymbolTable(base+".tbl", res.Symbols); err != nil {
			log.Println(err)
			return false
		}
	}

	return true
}

func main() {
	os.Exit(hmc14asm())
}
