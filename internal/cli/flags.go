package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

const (
	switchFlagTypeName          = "switch"
	switchFlagTrueLiteral       = "true"
	switchFlagAcceptedLiterals  = "true, false, yes, no, on, off, 1, 0"
	errorInvalidSwitchValueText = "invalid value %q for --%s; accepted values: %s"
	longFlagPrefix              = "--"
	shortFlagPrefix             = "-"
	argumentTerminator          = "--"
)

var switchFlagLiterals = map[string]bool{
	"true":  true,
	"t":     true,
	"1":     true,
	"yes":   true,
	"y":     true,
	"on":    true,
	"false": false,
	"f":     false,
	"0":     false,
	"no":    false,
	"n":     false,
	"off":   false,
}

// switchFlagValue is a boolean flag that also accepts yes/no style literals,
// so configuration defaults can be switched off from the command line.
type switchFlagValue struct {
	target   *bool
	flagName string
}

func (value *switchFlagValue) Set(input string) error {
	normalized := strings.ToLower(strings.TrimSpace(input))
	if normalized == "" {
		normalized = switchFlagTrueLiteral
	}
	parsed, known := switchFlagLiterals[normalized]
	if !known {
		return fmt.Errorf(errorInvalidSwitchValueText, input, value.flagName, switchFlagAcceptedLiterals)
	}
	*value.target = parsed
	return nil
}

func (value *switchFlagValue) String() string {
	if value == nil || value.target == nil {
		return strconv.FormatBool(false)
	}
	return strconv.FormatBool(*value.target)
}

func (value *switchFlagValue) Type() string {
	return switchFlagTypeName
}

// registerSwitchFlag registers a switch flag; a bare --name sets it to true.
func registerSwitchFlag(flagSet *pflag.FlagSet, target *bool, name string, shorthand string, usage string) {
	*target = false
	flagSet.VarP(&switchFlagValue{target: target, flagName: name}, name, shorthand, usage)
	if lookup := flagSet.Lookup(name); lookup != nil {
		lookup.DefValue = strconv.FormatBool(false)
		lookup.NoOptDefVal = switchFlagTrueLiteral
	}
}

// normalizeSwitchArguments rewrites "--name literal" and "-n literal" into the
// "=literal" form for switch flags so the literal is not mistaken for the
// repository argument.
func normalizeSwitchArguments(command *cobra.Command, arguments []string) []string {
	switchSpellings := map[string]struct{}{}
	collectSwitchFlagSpellings(command, switchSpellings)
	if len(switchSpellings) == 0 {
		return arguments
	}
	normalized := make([]string, 0, len(arguments))
	for index := 0; index < len(arguments); index++ {
		currentArgument := arguments[index]
		if currentArgument == argumentTerminator {
			normalized = append(normalized, arguments[index:]...)
			break
		}
		if _, isSwitch := switchSpellings[currentArgument]; isSwitch && index+1 < len(arguments) {
			nextArgument := arguments[index+1]
			if _, isLiteral := switchFlagLiterals[strings.ToLower(strings.TrimSpace(nextArgument))]; isLiteral {
				normalized = append(normalized, currentArgument+"="+nextArgument)
				index++
				continue
			}
		}
		normalized = append(normalized, currentArgument)
	}
	return normalized
}

// collectSwitchFlagSpellings records "--name" and, when present, "-n" for every
// switch flag of command and its subcommands.
func collectSwitchFlagSpellings(command *cobra.Command, target map[string]struct{}) {
	visit := func(flag *pflag.Flag) {
		if flag.Value == nil || flag.Value.Type() != switchFlagTypeName {
			return
		}
		target[longFlagPrefix+flag.Name] = struct{}{}
		if flag.Shorthand != "" {
			target[shortFlagPrefix+flag.Shorthand] = struct{}{}
		}
	}
	command.PersistentFlags().VisitAll(visit)
	command.Flags().VisitAll(visit)
	for _, child := range command.Commands() {
		collectSwitchFlagSpellings(child, target)
	}
}
