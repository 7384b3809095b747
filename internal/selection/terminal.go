package selection

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/temirov/flat/internal/types"
)

// ErrNotTerminal is returned when interactive selection is requested without a terminal.
var ErrNotTerminal = errors.New("interactive selection requires a terminal")

const (
	defaultVisibleRows = 20
	// reservedRows covers the header, two overflow markers, the blank line and the help footer.
	reservedRows = 5

	clearScreenSequence = "\x1b[H\x1b[2J"
	lineBreak           = "\r\n"

	headerFormat = "Select files to flatten (%d of %d included)"
	helpFooter   = "↑/k up  ↓/j down  space toggle  a all  enter confirm  q/esc cancel"
	cursorMarker = "> "
	plainMarker  = "  "
	includedBox  = "[x] "
	excludedBox  = "[ ] "
	moreLine     = "  ..."

	errorRawModeFormat = "enabling raw terminal mode: %w"
	errorReadKeyFormat = "reading key: %w"
)

// TerminalSelector runs a full-screen keyboard selection on a terminal.
type TerminalSelector struct {
	Input  *os.File
	Output io.Writer
	Logger *zap.Logger
}

// NewTerminalSelector creates a selector reading keys from stdin and drawing to stderr.
func NewTerminalSelector(logger *zap.Logger) *TerminalSelector {
	return &TerminalSelector{Input: os.Stdin, Output: os.Stderr, Logger: logger}
}

// Select puts the input terminal in raw mode, runs the selection session and restores the terminal.
func (selector *TerminalSelector) Select(ctx context.Context, candidates []types.CandidateFile) ([]types.CandidateFile, error) {
	if len(candidates) == 0 {
		return nil, nil
	}
	inputDescriptor := selector.Input.Fd()
	if !isatty.IsTerminal(inputDescriptor) && !isatty.IsCygwinTerminal(inputDescriptor) {
		return nil, ErrNotTerminal
	}

	fileDescriptor := int(inputDescriptor)
	previousState, rawModeError := term.MakeRaw(fileDescriptor)
	if rawModeError != nil {
		return nil, fmt.Errorf(errorRawModeFormat, rawModeError)
	}
	defer func() {
		if restoreError := term.Restore(fileDescriptor, previousState); restoreError != nil && selector.Logger != nil {
			selector.Logger.Warn("failed to restore terminal", zap.Error(restoreError))
		}
	}()

	visibleRows := defaultVisibleRows
	if _, terminalHeight, sizeError := term.GetSize(fileDescriptor); sizeError == nil && terminalHeight > reservedRows {
		visibleRows = terminalHeight - reservedRows
	}

	model := NewModel(candidates)
	if sessionError := RunSession(ctx, selector.Input, selector.Output, model, visibleRows); sessionError != nil {
		return nil, sessionError
	}
	return model.Candidates(), nil
}

// RunSession draws model and applies keys read from input until the user confirms
// or cancels. It returns ErrCancelled on cancel and when input ends before a decision.
func RunSession(ctx context.Context, input io.Reader, output io.Writer, model *Model, visibleRows int) error {
	keyReader := bufio.NewReader(input)
	defer io.WriteString(output, clearScreenSequence)
	for !model.Done() {
		if contextError := ctx.Err(); contextError != nil {
			return contextError
		}
		if _, writeError := io.WriteString(output, RenderFrame(model, visibleRows)); writeError != nil {
			return writeError
		}
		key, readError := readKey(keyReader)
		if errors.Is(readError, io.EOF) {
			return ErrCancelled
		}
		if readError != nil {
			return fmt.Errorf(errorReadKeyFormat, readError)
		}
		model.Handle(key)
	}
	if model.Cancelled() {
		return ErrCancelled
	}
	return nil
}

// readKey reads one key press. Bytes already buffered after an escape belong to the same sequence.
func readKey(reader *bufio.Reader) (Key, error) {
	firstByte, readError := reader.ReadByte()
	if readError != nil {
		return KeyNone, readError
	}
	sequence := []byte{firstByte}
	if firstByte == byteEscape {
		for len(sequence) < 3 && reader.Buffered() > 0 {
			nextByte, nextError := reader.ReadByte()
			if nextError != nil {
				break
			}
			sequence = append(sequence, nextByte)
		}
	}
	return DecodeKey(sequence), nil
}

// RenderFrame returns one full-screen drawing of model using raw-mode line breaks.
func RenderFrame(model *Model, visibleRows int) string {
	headerColor := color.New(color.Bold)
	cursorColor := color.New(color.FgCyan, color.Bold)
	excludedColor := color.New(color.Faint)
	helpColor := color.New(color.FgHiBlack)

	var builder strings.Builder
	builder.WriteString(clearScreenSequence)
	builder.WriteString(headerColor.Sprintf(headerFormat, model.IncludedCount(), len(model.candidates)))
	builder.WriteString(lineBreak)

	firstVisible, lastVisible := model.visibleRange(visibleRows)
	if firstVisible > 0 {
		builder.WriteString(moreLine + lineBreak)
	}
	for index := firstVisible; index < lastVisible; index++ {
		candidate := model.candidates[index]
		box := excludedBox
		if candidate.Included {
			box = includedBox
		}
		line := box + candidate.Path
		switch {
		case index == model.cursor:
			builder.WriteString(cursorColor.Sprint(cursorMarker + line))
		case !candidate.Included:
			builder.WriteString(plainMarker + excludedColor.Sprint(line))
		default:
			builder.WriteString(plainMarker + line)
		}
		builder.WriteString(lineBreak)
	}
	if lastVisible < len(model.candidates) {
		builder.WriteString(moreLine + lineBreak)
	}
	builder.WriteString(lineBreak)
	builder.WriteString(helpColor.Sprint(helpFooter))
	builder.WriteString(lineBreak)
	return builder.String()
}
