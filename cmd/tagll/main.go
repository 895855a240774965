package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/chzyer/readline"
	"github.com/pterm/pterm"

	"github.com/npillmayer/schuko/gtrace"
	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/schuko/tracing/gologadapter"

	"github.com/npillmayer/tagll"
	"github.com/npillmayer/tagll/automaton"
	"github.com/npillmayer/tagll/guide"
	"github.com/npillmayer/tagll/tags"
	"github.com/npillmayer/tagll/vocab"
)

func main() {
	// set up logging
	initDisplay()
	gtrace.SyntaxTracer = gologadapter.New()
	if code, err := run(os.Args[1:]); err != nil {
		pterm.Error.Println(err.Error())
		os.Exit(code)
	}
}

// run compiles the grammar given by the command line and enters the REPL.
// If it fails, it returns the exit code of the program along with the error.
// Files opened by run are closed when it returns.
func run(args []string) (int, error) {
	flags := flag.NewFlagSet("tagll", flag.ContinueOnError)
	tlevel := flags.String("trace", "Info", "Trace level [Debug|Info|Error]")
	grammarFile := flags.String("grammar", "", "Tag grammar (JSON)")
	ebnfFile := flags.String("ebnf", "", "Tag grammar (Go EBNF), alternative to -grammar")
	start := flags.String("start", "Start", "Start production of EBNF grammar")
	vocabFile := flags.String("vocab", "", "Tokenizer vocabulary (JSON)")
	eos := flags.Int("eos", 0, "ID of end-of-sequence token")
	regex := flags.Bool("regex", false, "Enable common regex classes")
	eosAlt := flags.Bool("eos-alt", false, "Allow empty generation")
	dump := flags.String("dump", "", "Write LL(1) table as JSON to file")
	htmlFile := flags.String("html", "", "Write LL(1) table as HTML to file")
	if err := flags.Parse(args); err != nil {
		return 2, err
	}
	tracer().SetTraceLevel(tracing.LevelInfo)
	pterm.Info.Println("Welcome to tagll")
	tracer().SetTraceLevel(tracing.TraceLevelFromString(*tlevel))
	//
	// read inputs and compile
	v, err := loadVocabulary(*vocabFile, tagll.TokenID(*eos))
	if err != nil {
		return 2, err
	}
	authored, err := loadGrammar(*grammarFile, *ebnfFile, *start)
	if err != nil {
		return 2, err
	}
	opts := []guide.Option{guide.WithEOSAlternative(*eosAlt)}
	if *regex {
		opts = append(opts, guide.WithRegexClasses(vocab.CommonClasses()))
	}
	if *dump != "" {
		f, err := os.Create(*dump)
		if err != nil {
			return 2, err
		}
		defer f.Close()
		opts = append(opts, guide.WithDiagnostics(f))
	}
	compiled, err := guide.Compile(authored, v, opts...)
	if err != nil {
		return 1, err
	}
	if *htmlFile != "" {
		if err = writeHTML(compiled, *htmlFile); err != nil {
			return 2, err
		}
	}
	compiled.Grammar().Dump() // only visible in debug mode
	printTable(compiled)
	//
	// set up REPL
	repl, err := readline.New("tagll> ")
	if err != nil {
		return 3, err
	}
	defer repl.Close()
	intp := &Intp{
		compiled: compiled,
		vocab:    v,
		A:        compiled.NewAutomaton(),
		repl:     repl,
	}
	tracer().Infof("Quit with <ctrl>D")
	intp.REPL()
	return 0, nil
}

// We use pterm for moderately fancy output.
func initDisplay() {
	pterm.EnableDebugMessages()
	pterm.Info.Prefix = pterm.Prefix{
		Text:  "  >>",
		Style: pterm.NewStyle(pterm.BgCyan, pterm.FgBlack),
	}
	pterm.Error.Prefix = pterm.Prefix{
		Text:  "  Error",
		Style: pterm.NewStyle(pterm.BgRed, pterm.FgBlack),
	}
}

func loadVocabulary(filename string, eos tagll.TokenID) (*vocab.Vocabulary, error) {
	if filename == "" {
		return nil, fmt.Errorf("no vocabulary given, use -vocab")
	}
	f, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return vocab.ReadJSON(f, eos)
}

func loadGrammar(grammarFile, ebnfFile, start string) (*tags.Authored, error) {
	var read func(io.Reader) (*tags.Authored, error)
	filename := grammarFile
	switch {
	case grammarFile != "" && ebnfFile != "":
		return nil, fmt.Errorf("-grammar and -ebnf are mutually exclusive")
	case grammarFile != "":
		read = tags.ReadJSON
	case ebnfFile != "":
		filename = ebnfFile
		read = func(r io.Reader) (*tags.Authored, error) {
			return tags.FromEBNF(r, start)
		}
	default:
		return nil, fmt.Errorf("no grammar given, use -grammar or -ebnf")
	}
	f, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return read(f)
}

func writeHTML(compiled *guide.Compiled, filename string) error {
	f, err := os.Create(filename)
	if err != nil {
		return err
	}
	if err = compiled.Table().WriteHTML(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// --- Interpreter -----------------------------------------------------------

// Intp is our interpreter object
type Intp struct {
	compiled *guide.Compiled
	vocab    *vocab.Vocabulary
	A        *automaton.Automaton
	repl     *readline.Instance
	accepted []tagll.TokenID
}

// REPL starts interactive mode.
func (intp *Intp) REPL() {
	for {
		line, err := intp.repl.Readline()
		if err != nil { // io.EOF
			break
		}
		if line = strings.TrimSpace(line); line == "" {
			continue
		}
		quit, err := intp.Execute(strings.Fields(line))
		if err != nil {
			pterm.Error.Println(err.Error())
			continue
		}
		if quit {
			break
		}
	}
	println("Good bye!")
}

// Execute executes a command given as a list of arguments.
func (intp *Intp) Execute(args []string) (bool, error) {
	cmd := args[0]
	switch cmd {
	case "quit", "exit":
		return true, nil
	case "valid":
		return false, intp.printValid()
	case "accept":
		if len(args) != 2 {
			return false, fmt.Errorf("usage: accept <id|token>")
		}
		id, err := intp.tokenID(args[1])
		if err != nil {
			return false, err
		}
		if err = intp.A.Accept(id); err != nil {
			return false, err
		}
		intp.accepted = append(intp.accepted, id)
		if intp.A.IsAccepting() {
			pterm.Success.Println("sequence complete")
		}
		return false, intp.printValid()
	case "stack":
		pterm.Info.Println(intp.A.String())
	case "reset":
		intp.A.Reset()
		intp.accepted = intp.accepted[:0]
		return false, intp.printValid()
	case "table":
		printTable(intp.compiled)
	case "grammar":
		printGrammar(intp.compiled)
	default:
		return false, fmt.Errorf("unknown command: %s", cmd)
	}
	return false, nil
}

// tokenID interprets arg as a token ID, or else as a vocabulary string.
func (intp *Intp) tokenID(arg string) (tagll.TokenID, error) {
	if n, err := strconv.Atoi(arg); err == nil {
		return tagll.TokenID(n), nil
	}
	if id, ok := intp.vocab.ID(arg); ok {
		return id, nil
	}
	return 0, fmt.Errorf("%q is neither a token ID nor in the vocabulary", arg)
}

func (intp *Intp) printValid() error {
	valid, err := intp.A.ValidTokenIDs()
	if err != nil {
		return err
	}
	tracer().Debugf("accepted so far: %v", intp.accepted)
	pterm.Info.Println(validTokens(valid, intp.vocab))
	return nil
}
