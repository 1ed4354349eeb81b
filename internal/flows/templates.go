package flows

import (
	"context"
	"slices"
	"strings"

	"github.com/raphi011/funcwiz/internal/feed"
	"github.com/raphi011/funcwiz/internal/log"
)

// Trigger kinds.
const (
	TriggerHTTP       = "http"
	TriggerTimer      = "timer"
	TriggerQueue      = "queue"
	TriggerBlob       = "blob"
	TriggerEventHub   = "eventhub"
	TriggerServiceBus = "servicebus"
	TriggerCosmosDB   = "cosmosdb"
)

// Template is a function template understood by func new --template.
type Template struct {
	// Name is passed to func new --template.
	Name        string `json:"name"`
	Trigger     string `json:"trigger"`
	Description string `json:"description,omitempty"`
	// Languages restricts the template; empty means all.
	Languages []string `json:"languages,omitempty"`
}

// Supports reports whether the template is available for language.
// An unknown language matches every template.
func (t Template) Supports(language string) bool {
	return language == "" || len(t.Languages) == 0 || slices.Contains(t.Languages, language)
}

// BuiltinTemplates are always offered, even when the template feed is
// unreachable.
var BuiltinTemplates = []Template{
	{Name: "HTTP trigger", Trigger: TriggerHTTP, Description: "Run on an HTTP request"},
	{Name: "Timer trigger", Trigger: TriggerTimer, Description: "Run on a schedule"},
	{Name: "Azure Queue Storage trigger", Trigger: TriggerQueue, Description: "Run when a message is added to a storage queue"},
	{Name: "Azure Blob Storage trigger", Trigger: TriggerBlob, Description: "Run when a blob is added or updated"},
	{Name: "Azure Event Hub trigger", Trigger: TriggerEventHub, Description: "Run when an event hub receives events"},
	{Name: "Azure Service Bus Queue trigger", Trigger: TriggerServiceBus, Description: "Run when a Service Bus queue receives a message"},
	{Name: "Azure Cosmos DB trigger", Trigger: TriggerCosmosDB, Description: "Run when documents change in a container"},
}

// LoadTemplates merges BuiltinTemplates with the feed at url. Remote
// entries replace built-ins of the same name (case-insensitive). A
// failing feed is logged and the built-ins are returned.
func LoadTemplates(ctx context.Context, c *feed.Cache, url string) []Template {
	out := slices.Clone(BuiltinTemplates)
	if c == nil || url == "" {
		return out
	}

	var remote []Template
	if err := c.GetJSON(ctx, url, &remote); err != nil {
		log.FromContext(ctx).Debug("template feed unavailable, using built-in templates", "url", url, "err", err)
		return out
	}

	for _, t := range remote {
		if t.Name == "" || t.Trigger == "" {
			continue
		}
		i := slices.IndexFunc(out, func(b Template) bool { return strings.EqualFold(b.Name, t.Name) })
		if i >= 0 {
			out[i] = t
		} else {
			out = append(out, t)
		}
	}
	return out
}
