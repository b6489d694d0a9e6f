package main

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"github.com/uganh16/luadec/internal/binary"
	"github.com/uganh16/luadec/internal/bytecode"
	"github.com/uganh16/luadec/internal/number"
	"github.com/uganh16/luadec/pkg/lua"
)

func listFiles(w io.Writer, paths []string) int {
	status := 0
	for _, file := range paths {
		var p *binary.Proto
		f, err := os.Open(file)
		if err == nil {
			p, err = binary.Undump(bufio.NewReader(f))
			f.Close()
		}
		if err != nil {
			fmt.Fprintf(os.Stderr, "%s: %v\n", file, err)
			status = 1
			continue
		}
		list(w, p)
	}
	return status
}

func list(w io.Writer, p *binary.Proto) {
	printHeader(w, p)
	printCode(w, p)
	printDebug(w, p)
	for _, p := range p.KProto {
		list(w, p)
	}
}

func printHeader(w io.Writer, p *binary.Proto) {
	funcType := "main"
	if p.LineDefined > 0 {
		funcType = "function"
	}

	source := p.Source
	if source == "" {
		source = "=?"
	}
	if source[0] == '@' || source[0] == '=' {
		source = source[1:]
	} else if source[0] == lua.SIGNATURE[0] {
		source = "(bstring)"
	} else {
		source = "(string)"
	}

	varargFlag := ""
	if p.IsVararg {
		varargFlag = "+"
	}

	fmt.Fprintf(w, "\n%s <%s:%d> (%d instruction%s)\n", funcType, source, p.LineDefined, len(p.Code), s(len(p.Code)))
	fmt.Fprintf(w, "%d%s param%s, %d slot%s, %d local%s, %d string%s, %d number%s, %d function%s\n", p.NumParams, varargFlag, s(p.NumParams), p.MaxStackSize, s(p.MaxStackSize), len(p.LocVars), s(len(p.LocVars)), len(p.KStr), s(len(p.KStr)), len(p.KNum), s(len(p.KNum)), len(p.KProto), s(len(p.KProto)))
}

func printCode(w io.Writer, p *binary.Proto) {
	for pc, i := range p.Code {
		fmt.Fprintf(w, "\t%d\t%-11s\t", pc+1, i.OpName())
		switch i.OpMode() {
		case bytecode.IU:
			u := i.U()
			fmt.Fprintf(w, "%d", u)
			switch i.Opcode().ArgMode() {
			case bytecode.OpArgK:
				if u < len(p.KStr) {
					fmt.Fprintf(w, "\t; %q", p.KStr[u])
				}
			case bytecode.OpArgF:
				if u < len(p.KNum) {
					fmt.Fprintf(w, "\t; %s", number.Format(p.KNum[u]))
				}
			}
		case bytecode.IS:
			sv := i.S()
			fmt.Fprintf(w, "%d", sv)
			if i.Opcode().ArgMode() == bytecode.OpArgJ {
				fmt.Fprintf(w, "\t; to %d", pc+2+sv)
			}
		case bytecode.IAB:
			a, b := i.AB()
			fmt.Fprintf(w, "%d %d", a, b)
		}
		fmt.Fprintf(w, "\n")
	}
}

func printDebug(w io.Writer, p *binary.Proto) {
	fmt.Fprintf(w, "strings (%d):\n", len(p.KStr))
	for i, k := range p.KStr {
		fmt.Fprintf(w, "\t%d\t%q\n", i, k)
	}

	fmt.Fprintf(w, "numbers (%d):\n", len(p.KNum))
	for i, k := range p.KNum {
		fmt.Fprintf(w, "\t%d\t%s\n", i, number.Format(k))
	}

	fmt.Fprintf(w, "locals (%d):\n", len(p.LocVars))
	for i, locVar := range p.LocVars {
		fmt.Fprintf(w, "\t%d\t%s\t%d\t%d\n", i, locVar.VarName, locVar.StartPC+1, locVar.EndPC+1)
	}
}

func s(n int) string {
	if n != 1 {
		return "s"
	}
	return ""
}
