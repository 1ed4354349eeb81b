package flows

import (
	"context"
	"fmt"
	"slices"

	"github.com/raphi011/funcwiz/internal/project"
	"github.com/raphi011/funcwiz/internal/wizard"
)

// ConnectionKind is a service a trigger can connect to.
type ConnectionKind struct {
	ID             string
	Label          string
	DefaultSetting string
	// Storage kinds can use the local storage emulator.
	Storage bool
}

// ConnectionKinds lists the supported services.
var ConnectionKinds = []ConnectionKind{
	{ID: "storage", Label: "Azure Storage", DefaultSetting: project.StorageSetting, Storage: true},
	{ID: "eventhub", Label: "Event Hubs", DefaultSetting: "EventHubConnection"},
	{ID: "servicebus", Label: "Service Bus", DefaultSetting: "ServiceBusConnection"},
	{ID: "cosmosdb", Label: "Cosmos DB", DefaultSetting: "CosmosDBConnection"},
}

// ConnectionKindByID returns the kind with id.
func ConnectionKindByID(id string) (ConnectionKind, bool) {
	i := slices.IndexFunc(ConnectionKinds, func(k ConnectionKind) bool { return k.ID == id })
	if i < 0 {
		return ConnectionKind{}, false
	}
	return ConnectionKinds[i], true
}

// connectionKindForTrigger returns the connection a trigger needs.
func connectionKindForTrigger(trigger string) (string, bool) {
	switch trigger {
	case TriggerQueue, TriggerBlob:
		return "storage", true
	case TriggerEventHub, TriggerServiceBus, TriggerCosmosDB:
		return trigger, true
	default:
		return "", false
	}
}

const (
	choiceEmulator         = "Use local emulator"
	choiceConnectionString = "Enter a connection string"
)

type connectionKindStep struct {
	wizard.BasePromptStep
}

func (connectionKindStep) ID() string { return "connection-kind" }

// ShouldPrompt is false when a trigger already determined the kind.
func (connectionKindStep) ShouldPrompt(wctx *wizard.Context) bool {
	return !wctx.Has(KeyConnectionKind)
}

func (connectionKindStep) Prompt(ctx context.Context, wctx *wizard.Context) error {
	choices := make([]wizard.Choice, len(ConnectionKinds))
	for i, k := range ConnectionKinds {
		choices[i] = wizard.Choice{Label: k.Label, Value: k.ID}
	}
	c, err := wctx.Pick(ctx, "Select the service to connect to", choices)
	if err != nil {
		return err
	}
	wctx.Set(KeyConnectionKind, c.Value)
	return nil
}

type settingNameStep struct {
	wizard.BasePromptStep
}

func (settingNameStep) ID() string { return "connection-setting" }

func (settingNameStep) Prompt(ctx context.Context, wctx *wizard.Context) error {
	kind, _ := ConnectionKindByID(wctx.String(KeyConnectionKind))
	name, err := wctx.Input(ctx, wizard.InputOptions{
		Prompt:      fmt.Sprintf("App setting for the %s connection", kind.Label),
		Placeholder: kind.DefaultSetting,
		Value:       kind.DefaultSetting,
		Validate:    ValidateSettingName,
	})
	if err != nil {
		return err
	}
	wctx.Set(KeyConnectionSetting, name)
	return nil
}

type connectionSourceStep struct {
	wizard.BasePromptStep
}

func (connectionSourceStep) ID() string { return "connection-source" }

// ShouldPrompt offers the emulator only for storage connections.
func (connectionSourceStep) ShouldPrompt(wctx *wizard.Context) bool {
	kind, _ := ConnectionKindByID(wctx.String(KeyConnectionKind))
	return kind.Storage
}

func (connectionSourceStep) Prompt(ctx context.Context, wctx *wizard.Context) error {
	c, err := wctx.Pick(ctx, "How should the function connect?", []wizard.Choice{
		{Label: choiceEmulator, Description: "Azurite on localhost", Value: true},
		{Label: choiceConnectionString, Value: false},
	})
	if err != nil {
		return err
	}
	wctx.Set(KeyUseEmulator, c.Value)
	return nil
}

type connectionStringStep struct {
	wizard.BasePromptStep
}

func (connectionStringStep) ID() string { return "connection-string" }

func (connectionStringStep) ShouldPrompt(wctx *wizard.Context) bool {
	return !wctx.Bool(KeyUseEmulator)
}

func (connectionStringStep) Prompt(ctx context.Context, wctx *wizard.Context) error {
	s, err := wctx.Input(ctx, wizard.InputOptions{
		Prompt:      "Connection string",
		Placeholder: "Endpoint=...;SharedAccessKeyName=...;SharedAccessKey=...",
		Validate:    ValidateRequired("connection string"),
	})
	if err != nil {
		return err
	}
	wctx.Set(KeyConnectionString, s)
	return nil
}

type connectionParams struct {
	ProjectPath      string `wizard:"projectPath" validate:"required"`
	Setting          string `wizard:"connectionSetting" validate:"required"`
	UseEmulator      bool   `wizard:"useEmulator"`
	ConnectionString string `wizard:"connectionString"`
}

func writeConnectionSetting(ctx context.Context, wctx *wizard.Context) error {
	var p connectionParams
	if err := wctx.Require(&p); err != nil {
		return err
	}
	value := p.ConnectionString
	if p.UseEmulator {
		value = project.EmulatorConnection
	}
	if value == "" {
		return &wizard.InternalError{Err: fmt.Errorf("no connection string for %s", p.Setting)}
	}
	return project.UpdateLocalSettings(p.ProjectPath, func(s *project.LocalSettings) error {
		s.SetValue(p.Setting, value)
		return nil
	})
}

// ConnectionSteps returns the configure-connection steps.
func ConnectionSteps() *wizard.SubWizard {
	return &wizard.SubWizard{
		PromptSteps: []wizard.PromptStep{
			connectionKindStep{},
			settingNameStep{},
			connectionSourceStep{},
			connectionStringStep{},
		},
		ExecuteSteps: []wizard.ExecuteStep{
			wizard.NewExecute("write-connection", PriorityConnection, writeConnectionSetting).
				Describe("Writing connection setting"),
		},
	}
}

// NewConnection builds "funcwiz connection set" for the project at
// projectDir.
func NewConnection(wctx *wizard.Context, projectDir string) *wizard.Wizard {
	wctx.Set(KeyProjectPath, projectDir)
	steps := ConnectionSteps()
	return wizard.New(wctx, wizard.Options{
		Title:        "Configure connection",
		PromptSteps:  steps.PromptSteps,
		ExecuteSteps: steps.ExecuteSteps,
	})
}
