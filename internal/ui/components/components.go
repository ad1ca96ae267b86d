// Package components holds the panes of the lazydb screen.
package components

import (
	"github.com/nhath/lazydb/internal/layout"
	"github.com/nhath/lazydb/internal/ui/component"
)

// RegisterAll adds one instance of every pane to reg.
func RegisterAll(reg *component.Registry) {
	reg.Register(layout.Title, NewTitle())
	reg.Register(layout.ConnectionMenu, NewConnectionMenu())
	reg.Register(layout.SchemaList, NewSchemaList())
	reg.Register(layout.TableList, NewTableList())
	reg.Register(layout.Editor, NewEditor())
	reg.Register(layout.ResultsTable, NewResultsTable())
	reg.Register(layout.StructureTable, NewStructureTable())
	reg.Register(layout.Messages, NewMessages())
	reg.Register(layout.DetailPopup, NewDetailPopup())
}
