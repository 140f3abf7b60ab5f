package commands

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/JaimeStill/riskline/internal/risks"
)

// Command is a resolved action with its parameters.
type Command struct {
	Action Action            `json:"action"`
	Params map[string]string `json:"params,omitempty"`
}

type pattern struct {
	re     *regexp.Regexp
	action Action
}

// Patterns are tried in order; the first match wins. Italian phrases come
// first, followed by their English equivalents.
var patterns = []pattern{
	{regexp.MustCompile(`genera\s+valutazione\s+rischi`), GenerateRiskAssessment},
	{regexp.MustCompile(`mostra\s+dashboard`), ShowDashboard},
	{regexp.MustCompile(`mostra\s+gestione\s+rischi`), ShowRiskManagement},
	{regexp.MustCompile(`mostra\s+configurazione\s+agenti`), ShowAgentConfiguration},
	{regexp.MustCompile(`mostra\s+comandi\s+vocale`), ShowVoiceCommands},
	{regexp.MustCompile(`filtra\s+per\s+livello\s+strategico`), FilterStrategic},
	{regexp.MustCompile(`filtra\s+per\s+livello\s+progetto`), FilterProject},
	{regexp.MustCompile(`filtra\s+per\s+livello\s+operativo`), FilterOperational},
	{regexp.MustCompile(`mostra\s+tutti\s+i\s+rischi`), ShowAllRisks},
	{regexp.MustCompile(`salva\s+i\s+dati`), SaveData},
	{regexp.MustCompile(`salva\s+la\s+valutazione`), SaveData},
	{regexp.MustCompile(`salva\s+valutazione\s+rischi`), SaveData},
	{regexp.MustCompile(`mostra\s+rischi\s+principali`), ShowTopRisks},
	{regexp.MustCompile(`aggiungi\s+.*\s+rischio`), AddRisk},
	{regexp.MustCompile(`modifica\s+.*\s+rischio`), EditRisk},

	{regexp.MustCompile(`generate\s+(a\s+)?risk\s+assessment`), GenerateRiskAssessment},
	{regexp.MustCompile(`show\s+(the\s+)?dashboard`), ShowDashboard},
	{regexp.MustCompile(`show\s+risk\s+management`), ShowRiskManagement},
	{regexp.MustCompile(`show\s+agent\s+configuration`), ShowAgentConfiguration},
	{regexp.MustCompile(`show\s+voice\s+commands`), ShowVoiceCommands},
	{regexp.MustCompile(`filter\s+by\s+strategic\s+level|filter\s+by\s+level\s+strategic`), FilterStrategic},
	{regexp.MustCompile(`filter\s+by\s+project\s+level|filter\s+by\s+level\s+project`), FilterProject},
	{regexp.MustCompile(`filter\s+by\s+operational\s+level|filter\s+by\s+level\s+operational`), FilterOperational},
	{regexp.MustCompile(`show\s+all\s+risks`), ShowAllRisks},
	{regexp.MustCompile(`save\s+(the\s+)?(data|assessment|risk\s+assessment)`), SaveData},
	{regexp.MustCompile(`show\s+top\s+risks`), ShowTopRisks},
	{regexp.MustCompile(`add\s+(.*\s+)?risk\b`), AddRisk},
	{regexp.MustCompile(`(edit|modify)\s+(.*\s+)?risk\b`), EditRisk},
}

// Match resolves a phrase to a command. The phrase is lowercased and
// trimmed; any pattern found within it matches.
func Match(phrase string) (Command, error) {
	p := strings.ToLower(strings.TrimSpace(phrase))
	if p == "" {
		return Command{}, ErrEmptyCommand
	}

	for _, pt := range patterns {
		if pt.re.MatchString(p) {
			return newCommand(pt.action), nil
		}
	}
	return Command{}, fmt.Errorf("%w: %q", ErrUnrecognized, phrase)
}

// Phrases returns an example Italian and English phrase per action.
func Phrases() map[Action][]string {
	return map[Action][]string{
		GenerateRiskAssessment: {"genera valutazione rischi", "generate risk assessment"},
		ShowDashboard:          {"mostra dashboard", "show dashboard"},
		ShowRiskManagement:     {"mostra gestione rischi", "show risk management"},
		ShowAgentConfiguration: {"mostra configurazione agenti", "show agent configuration"},
		ShowVoiceCommands:      {"mostra comandi vocale", "show voice commands"},
		FilterStrategic:        {"filtra per livello strategico", "filter by strategic level"},
		FilterProject:          {"filtra per livello progetto", "filter by project level"},
		FilterOperational:      {"filtra per livello operativo", "filter by operational level"},
		ShowAllRisks:           {"mostra tutti i rischi", "show all risks"},
		SaveData:               {"salva i dati", "save the data"},
		ShowTopRisks:           {"mostra rischi principali", "show top risks"},
		AddRisk:                {"aggiungi un rischio", "add a risk"},
		EditRisk:               {"modifica il rischio", "edit the risk"},
	}
}

func newCommand(a Action) Command {
	c := Command{Action: a}
	if level, ok := filterLevel(a); ok {
		c.Params = map[string]string{"level": string(level)}
	}
	return c
}

func filterLevel(a Action) (risks.Level, bool) {
	switch a {
	case FilterStrategic:
		return risks.LevelStrategic, true
	case FilterProject:
		return risks.LevelProject, true
	case FilterOperational:
		return risks.LevelOperational, true
	}
	return "", false
}
