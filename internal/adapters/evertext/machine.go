package evertext

import (
	"strings"

	"github.com/bnema/evertext-autopilot/internal/domain"
)

// LoginCommand opens the restore-code login dialogue.
const LoginCommand = "d"

// RapidFireCommands confirm the dailies run and log out.
var RapidFireCommands = []string{"y", "auto", "exit", "exit", "exit", "exit"}

type State int

const (
	StateConnected State = iota
	StateSentLoginCommand
	StateSentRestoreCode
	StateServerSelected
	StateWaitingProcedure
	StateRapidFire
	StateFinished
)

var stateNames = map[State]string{
	StateConnected:        "connected",
	StateSentLoginCommand: "sent_login_command",
	StateSentRestoreCode:  "sent_restore_code",
	StateServerSelected:   "server_selected",
	StateWaitingProcedure: "waiting_procedure",
	StateRapidFire:        "rapid_fire",
	StateFinished:         "finished",
}

func (s State) String() string {
	if name, ok := stateNames[s]; ok {
		return name
	}

	return "unknown"
}

type stateSet []State

func (s stateSet) has(state State) bool {
	for _, candidate := range s {
		if candidate == state {
			return true
		}
	}

	return false
}

// rule is one row of the transition table. A nil from set admits every
// state not listed in except. A rule with an outcome ends the session.
type rule struct {
	triggers []string
	from     stateSet
	except   stateSet
	next     State
	command  func(m *Machine) string
	wait     bool
	outcome  domain.OutcomeKind
}

func (r rule) matches(text string) bool {
	for _, trigger := range r.triggers {
		if strings.Contains(text, trigger) {
			return true
		}
	}

	return false
}

func (r rule) admits(state State) bool {
	if r.from != nil && !r.from.has(state) {
		return false
	}

	return !r.except.has(state)
}

// rules is evaluated top to bottom against each new chunk. Several rows can
// fire for the same chunk, each seeing the state left by the previous one.
var rules = []rule{
	{
		triggers: []string{"Enter Command to use"},
		from:     stateSet{StateConnected, StateWaitingProcedure},
		next:     StateSentLoginCommand,
		command:  func(*Machine) string { return LoginCommand },
	},
	{
		triggers: []string{"Enter Restore code"},
		from:     stateSet{StateSentLoginCommand, StateConnected, StateWaitingProcedure},
		next:     StateSentRestoreCode,
		command:  func(m *Machine) string { return m.account.RestoreCode },
	},
	{
		triggers: []string{"Which acc u want to Login"},
		from:     stateSet{StateSentRestoreCode, StateConnected, StateWaitingProcedure},
		next:     StateServerSelected,
		command:  (*Machine).serverIndex,
	},
	{
		triggers: []string{"Performing Dailies", "Press y"},
		except:   stateSet{StateWaitingProcedure, StateRapidFire, StateFinished},
		next:     StateWaitingProcedure,
		wait:     true,
	},
	{
		triggers: []string{"Either Zigza error or Incorrect Restore Code Entered"},
		outcome:  domain.OutcomeZigzaDetected,
	},
	{
		triggers: []string{"Server reached maximum limit of restore accounts"},
		outcome:  domain.OutcomeServerFull,
	},
	{
		triggers: []string{"Access to start bot is restricted only for logged in users"},
		outcome:  domain.OutcomeLoginRequired,
	},
}

// Reaction is what the session must do after a chunk of output.
type Reaction struct {
	Commands    []string
	WaitStarted bool
}

// Machine interprets terminal output for one account. It performs no I/O.
type Machine struct {
	account domain.Account
	state   State
	history *history
}

func NewMachine(account domain.Account) *Machine {
	return &Machine{
		account: account,
		state:   StateConnected,
		history: newHistory(HistoryLimit),
	}
}

func (m *Machine) State() State {
	return m.state
}

func (m *Machine) History() string {
	return m.history.String()
}

// Feed records text and applies every matching rule. A terminal rule returns
// its outcome as an *domain.OutcomeError together with the commands already
// decided for the chunk.
func (m *Machine) Feed(text string) (Reaction, error) {
	m.history.Append(text)

	var reaction Reaction
	for _, r := range rules {
		if !r.matches(text) || !r.admits(m.state) {
			continue
		}
		if r.outcome != "" {
			return reaction, domain.NewOutcome(r.outcome, r.triggers[0])
		}
		if r.command != nil {
			reaction.Commands = append(reaction.Commands, r.command(m))
		}
		if r.wait {
			reaction.WaitStarted = true
		}
		m.state = r.next
	}

	return reaction, nil
}

// BeginRapidFire moves a waiting session into the closing sequence.
func (m *Machine) BeginRapidFire() bool {
	if m.state != StateWaitingProcedure {
		return false
	}
	m.state = StateRapidFire

	return true
}

func (m *Machine) Finish() {
	m.state = StateFinished
}

func (m *Machine) serverIndex() string {
	index, _ := selectServerIndex(m.history.String(), m.account.TargetServer)
	return index
}
