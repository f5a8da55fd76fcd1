package main

import (
	"bufio"
	"flag"
	"fmt"
	"log"
	"os"

	"hmc14/pkg/inspect"
)

var helpvar bool

const usage = "hmc14dump FILE.ob"

func init() {
	log.SetFlags(0)
	log.SetOutput(os.Stderr)
}

func init() {
	flag.BoolVar(&helpvar, "help", false, "Displays command usage")
	flag.Parse()
}

func hmc14dump() int {
	if helpvar {
		fmt.Println(usage)
		return 0
	}

	args := flag.Args()
	if len(args) != 1 {
		log.Println(usage)
		return 1
	}

	file, err := os.Open(args[0])
	if err != nil {
		log.Println(err)
		return 1
	}
	defer file.Close()

	obj, err := inspect.ParseObject(file)
	if err != nil {
		log.Println(err)
		return 1
	}

	fmt.Printf("code: %d word(s)  data: %d word(s)\n", obj.CodeCount, obj.DataCount)
	fmt.Println("space: next word   q: quit")

	if err := inspect.EnterRawTerm(); err != nil {
		log.Println(err)
		return 1
	}
	defer inspect.ExitRawTerm()

	pager := inspect.NewPager(obj, os.Stdout)
	keyboard := bufio.NewReader(os.Stdin)

	for !pager.Done() {
		b, err := keyboard.ReadByte()
		if err != nil {
			break
		}
		switch b {
		case ' ':
			pager.Step()
		case 'q', 'Q', 3:
			return 0
		}
	}

	return 0
}

func main() {
	os.Exit(hmc14dump())
}
