package console

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"unicode/utf8"

	"go.uber.org/zap"

	"spacecolony/internal/sim/colony"
	"spacecolony/internal/sim/ledger"
	"spacecolony/internal/sim/planner"
)

// Input splits console input into whitespace separated tokens.
type Input struct {
	sc *bufio.Scanner
}

func NewInput(r io.Reader) *Input {
	sc := bufio.NewScanner(r)
	sc.Split(bufio.ScanWords)
	return &Input{sc: sc}
}

// Next returns the next token, or io.EOF.
func (in *Input) Next() (string, error) {
	if in.sc.Scan() {
		return in.sc.Text(), nil
	}
	if err := in.sc.Err(); err != nil {
		return "", err
	}
	return "", io.EOF
}

// LoadFile opens path and hands it to parse. When the file does not open
// or does not parse, the reason goes to out and another name is read from
// in, until one loads. An empty path prompts straight away.
func LoadFile[T any](in *Input, out io.Writer, kind, path string, parse func(io.Reader) (T, error)) (T, error) {
	var zero T
	if path == "" {
		fmt.Fprintf(out, "Please enter the %s file name:\n", kind)
		p, err := in.Next()
		if err != nil {
			return zero, err
		}
		path = p
	}
	for {
		f, err := os.Open(path)
		if err != nil {
			fmt.Fprintf(out, "Unable to open the file %s. Please enter the correct %s file name:\n", path, kind)
		} else {
			v, perr := parse(f)
			_ = f.Close()
			if perr == nil {
				return v, nil
			}
			fmt.Fprintf(out, "The file %s is not a valid %s file (%v). Please enter the correct %s file name:\n", path, kind, perr, kind)
		}
		if path, err = in.Next(); err != nil {
			return zero, err
		}
	}
}

type Options struct {
	ShowMenu bool
	Logger   *zap.Logger
}

// Session drives the numbered menu against one engine.
type Session struct {
	eng  *colony.Engine
	in   *Input
	out  io.Writer
	opts Options
	log  *zap.Logger
}

func NewSession(eng *colony.Engine, in *Input, out io.Writer, opts Options) *Session {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	return &Session{eng: eng, in: in, out: out, opts: opts, log: log}
}

// Run loops until Exit or end of input, then closes the engine.
func (s *Session) Run() error {
	if s.opts.ShowMenu {
		s.printMenu()
	}
	for {
		tok, err := s.in.Next()
		if errors.Is(err, io.EOF) {
			return s.exit()
		}
		if err != nil {
			_ = s.eng.Close()
			return err
		}
		action := Resolve(tok)
		s.log.Debug("menu", zap.String("input", tok), zap.Int("action", int(action)))

		switch action {
		case ActionConstruct:
			err = s.construct()
		case ActionDemolish:
			err = s.demolish()
		case ActionPrint:
			PrintColony(s.out, s.eng.Layout())
		case ActionPrintReverse:
			PrintColonyReverse(s.out, s.eng.Layout())
		case ActionPrintExpanded:
			PrintExpanded(s.out, s.eng.Layout())
		case ActionPrintExpandedReverse:
			PrintExpandedReverse(s.out, s.eng.Layout())
		case ActionStock:
			PrintStock(s.out, s.eng.Stock())
		case ActionExit:
			return s.exit()
		default:
			fmt.Fprintf(s.out, "Invalid choice %s. Please enter a number between 1 and 8:\n", tok)
		}
		if errors.Is(err, io.EOF) {
			return s.exit()
		}
		if err != nil {
			_ = s.eng.Close()
			return err
		}
	}
}

func (s *Session) exit() error {
	fmt.Fprintln(s.out, "Clearing the memory and terminating the program.")
	return s.eng.Close()
}

func (s *Session) printMenu() {
	fmt.Fprintln(s.out, "Please enter your choice:")
	for i, c := range commands {
		fmt.Fprintf(s.out, "%d. %s\n", i+1, c.label)
	}
}

func (s *Session) readBuildType() (rune, string, error) {
	fmt.Fprintln(s.out, "Please enter the building type:")
	tok, err := s.in.Next()
	if err != nil {
		return 0, "", err
	}
	if utf8.RuneCountInString(tok) != 1 {
		return utf8.RuneError, tok, nil
	}
	r, _ := utf8.DecodeRuneInString(tok)
	return r, tok, nil
}

func (s *Session) construct() error {
	bt, tok, err := s.readBuildType()
	if err != nil {
		return err
	}
	cat := s.eng.Catalog()
	for !cat.Has(bt) {
		fmt.Fprintf(s.out, "Building type %s is not found in the consumption catalog. Please enter a valid building type:\n", tok)
		if tok, err = s.in.Next(); err != nil {
			return err
		}
		bt = utf8.RuneError
		if utf8.RuneCountInString(tok) == 1 {
			bt, _ = utf8.DecodeRuneInString(tok)
		}
	}

	if err := s.eng.Afford(bt); err != nil {
		s.reportConstructError(err)
		return nil
	}

	fmt.Fprintf(s.out, "Please enter the index of the empty block where you want to construct a building of type %c\n", bt)
	tok, err = s.in.Next()
	if err != nil {
		return err
	}
	index, convErr := strconv.Atoi(tok)
	if convErr != nil {
		fmt.Fprintf(s.out, "Invalid index %s. The index must be a positive whole number.\n", tok)
		return nil
	}
	res, err := s.eng.Construct(bt, index)
	if err != nil {
		s.reportConstructError(err)
		return nil
	}
	fmt.Fprintf(s.out, "Building of type %c has been added at the empty block number: %d\n", res.BuildType, res.Index)
	return nil
}

func (s *Session) reportConstructError(err error) {
	s.log.Info("construct not applied", zap.String("code", colony.Code(err)), zap.Error(err))
	switch {
	case errors.Is(err, ledger.ErrInsufficient):
		name, _ := colony.Shortfall(err)
		fmt.Fprintf(s.out, "Insufficient resource %s\n", name)
		fmt.Fprintln(s.out, "Failed to add the building due to insufficient resources.")
	case errors.Is(err, colony.ErrIndexTooLarge):
		fmt.Fprintf(s.out, "Invalid index. The colony cannot grow by more than %d empty blocks at once.\n", planner.MaxWidth)
	case errors.Is(err, colony.ErrInvalidIndex):
		fmt.Fprintln(s.out, "Invalid index. The index must be a positive whole number.")
	default:
		fmt.Fprintf(s.out, "Failed to add the building: %v\n", err)
	}
}

func (s *Session) demolish() error {
	bt, tok, err := s.readBuildType()
	if err != nil {
		return err
	}
	res, err := s.eng.Demolish(bt)
	if err != nil {
		s.log.Info("demolish not applied", zap.String("code", colony.Code(err)), zap.Error(err))
	}
	if errors.Is(err, colony.ErrBuildingNotFound) {
		fmt.Fprintf(s.out, "Building of type %s not found in the colony.\n", tok)
		return nil
	}
	if err != nil {
		fmt.Fprintf(s.out, "Failed to demolish the building: %v\n", err)
		return nil
	}
	fmt.Fprintf(s.out, "The building of type %c has been deleted from the colony.\n", res.BuildType)
	return nil
}
