package flows

import (
	"slices"

	"github.com/raphi011/funcwiz/internal/wizard"
)

// Language is a project language and how func init is told about it.
type Language struct {
	ID            string
	Label         string
	WorkerRuntime string
	// InitArgs are passed to func init after --worker-runtime.
	InitArgs []string
}

// Languages lists the supported project languages. The IDs match
// config.ValidLanguages.
var Languages = []Language{
	{ID: "csharp", Label: "C#", WorkerRuntime: "dotnet-isolated"},
	{ID: "javascript", Label: "JavaScript", WorkerRuntime: "node", InitArgs: []string{"--language", "javascript"}},
	{ID: "typescript", Label: "TypeScript", WorkerRuntime: "node", InitArgs: []string{"--language", "typescript"}},
	{ID: "python", Label: "Python", WorkerRuntime: "python"},
	{ID: "java", Label: "Java", WorkerRuntime: "java"},
	{ID: "powershell", Label: "PowerShell", WorkerRuntime: "powershell"},
	{ID: "custom", Label: "Custom handler", WorkerRuntime: "custom"},
}

// LanguageByID returns the language with id.
func LanguageByID(id string) (Language, bool) {
	i := slices.IndexFunc(Languages, func(l Language) bool { return l.ID == id })
	if i < 0 {
		return Language{}, false
	}
	return Languages[i], true
}

// languageForRuntime maps a FUNCTIONS_WORKER_RUNTIME value back to a
// language. "node" is ambiguous and reported as javascript.
func languageForRuntime(runtime string) (Language, bool) {
	if runtime == "dotnet" {
		runtime = "dotnet-isolated"
	}
	i := slices.IndexFunc(Languages, func(l Language) bool { return l.WorkerRuntime == runtime })
	if i < 0 {
		return Language{}, false
	}
	return Languages[i], true
}

// languageChoices puts the configured default first.
func languageChoices(defaultID string) []wizard.Choice {
	choices := make([]wizard.Choice, 0, len(Languages))
	for _, l := range Languages {
		c := wizard.Choice{Label: l.Label, Value: l.ID}
		if l.ID == "custom" {
			c.Description = "Ballerina or any executable speaking the custom handler protocol"
		}
		if l.ID == defaultID {
			choices = append([]wizard.Choice{c}, choices...)
			continue
		}
		choices = append(choices, c)
	}
	return choices
}

// PythonVersions are offered for Python projects, newest first.
var PythonVersions = []string{"3.12", "3.11", "3.10", "3.9"}

// TargetFrameworks are offered for .NET projects, newest first.
var TargetFrameworks = []string{"net9.0", "net8.0", "net6.0"}

// Custom handler kinds.
const (
	HandlerBallerina = "ballerina"
	HandlerOther     = "executable"
)
