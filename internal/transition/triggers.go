package transition

import (
	"github.com/lordjaxom/schlazicontrol/internal/channel"
	"github.com/lordjaxom/schlazicontrol/internal/component"
	"github.com/lordjaxom/schlazicontrol/internal/config"
	"github.com/lordjaxom/schlazicontrol/internal/iotype"
	"github.com/lordjaxom/schlazicontrol/internal/triggers"
)

// Triggers evaluates a fixed list of event/outcome Actions against its
// single input channel on every change and timer expiry.
type Triggers struct {
	identity component.Identity
	deps     component.Deps
	actions  []triggers.Action
}

var _ iotype.Transition = (*Triggers)(nil)

// NewTriggers resolves {actions: [{event: string, outcomes: [string]}]}.
func NewTriggers(deps component.Deps, id string, node config.Node) (component.Component, error) {
	actionsNode, err := node.Key("actions")
	if err != nil {
		return nil, err
	}
	actionNodes, err := actionsNode.Iter()
	if err != nil {
		return nil, err
	}
	actions := make([]triggers.Action, 0, len(actionNodes))
	for _, an := range actionNodes {
		action, err := parseAction(an)
		if err != nil {
			return nil, err
		}
		actions = append(actions, action)
	}
	return &Triggers{
		identity: component.Identity{Category: component.CategoryTransition, Name: "triggers", ID: id},
		deps:     deps,
		actions:  actions,
	}, nil
}

func parseAction(node config.Node) (triggers.Action, error) {
	eventNode, err := node.Key("event")
	if err != nil {
		return triggers.Action{}, err
	}
	eventText, err := config.As[string](eventNode)
	if err != nil {
		return triggers.Action{}, err
	}
	event, err := triggers.ParseEvent(eventText)
	if err != nil {
		return triggers.Action{}, err
	}

	outcomesNode, err := node.Key("outcomes")
	if err != nil {
		return triggers.Action{}, err
	}
	outcomeTexts, err := config.As[[]string](outcomesNode)
	if err != nil {
		return triggers.Action{}, err
	}
	outcomes := make([]triggers.Outcome, 0, len(outcomeTexts))
	for _, text := range outcomeTexts {
		outcome, err := triggers.ParseOutcome(text)
		if err != nil {
			return triggers.Action{}, err
		}
		outcomes = append(outcomes, outcome)
	}

	return triggers.NewAction(event, outcomes), nil
}

func (t *Triggers) Identity() component.Identity { return t.identity }
func (t *Triggers) Accepts(n int) bool            { return n == 1 }
func (t *Triggers) Emits(int) int                 { return 1 }

func (t *Triggers) Instantiate() iotype.TransitionInstance {
	return &triggersInstance{triggers: t, state: &triggers.State{}}
}

type triggersInstance struct {
	triggers *Triggers
	state    *triggers.State
}

func (ti *triggersInstance) Transform(conn iotype.Connection, buf channel.Buffer) channel.Buffer {
	ctx := triggers.NewContext(ti.triggers.identity.ID, conn, ti.triggers.deps, ti.state, buf.At(0))
	for _, action := range ti.triggers.actions {
		action.Invoke(ctx)
	}
	out := channel.NewSimple(1)
	out.Set(0, ctx.Finish())
	return out
}
