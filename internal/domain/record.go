package domain

import (
	"fmt"
	"strconv"
)

// Record is a schema-less row as stored in the remote database. Field
// validation is the responsibility of the UI layer; this core only cares
// about the identifier.
type Record map[string]interface{}

// ID returns the record's stable identifier as a string, or "" if the
// record has not been persisted yet.
func (r Record) ID() string {
	if r == nil {
		return ""
	}
	switch v := r["id"].(type) {
	case string:
		return v
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case fmt.Stringer:
		return v.String()
	default:
		return ""
	}
}

// Clone returns a shallow copy so callers can mutate patches without
// touching a snapshot that was already handed to the audit trail.
func (r Record) Clone() Record {
	if r == nil {
		return nil
	}
	out := make(Record, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

// EntityDef describes a known collection in the remote store.
type EntityDef struct {
	// Table is the collection name as used in SQL and in audit entries.
	Table string
	// Noun is the Spanish singular used when generating audit descriptions.
	Noun string
	// Module groups audit entries for reporting. Defaults to the table name.
	Module string
}

// Entities is the registry of collections the store facade will accept.
// Anything else is rejected with ErrUnknownEntity before touching the
// database.
var Entities = map[string]EntityDef{
	"clients":      {Table: "clients", Noun: "cliente", Module: "clientes"},
	"orders":       {Table: "orders", Noun: "pedido", Module: "ventas"},
	"quotes":       {Table: "quotes", Noun: "cotización", Module: "ventas"},
	"products":     {Table: "products", Noun: "producto", Module: "inventario"},
	"maintenances": {Table: "maintenances", Noun: "mantenimiento", Module: "servicios"},
	"employees":    {Table: "employees", Noun: "empleado", Module: "empleados"},
}

// EntityByName looks up a registered entity definition.
func EntityByName(name string) (EntityDef, bool) {
	def, ok := Entities[name]
	return def, ok
}

// NounFor returns the Spanish noun for a table, falling back to the raw
// table name for collections registered at runtime.
func NounFor(table string) string {
	if def, ok := Entities[table]; ok {
		return def.Noun
	}
	return table
}
