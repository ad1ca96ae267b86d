package db

import "fmt"

// TagKind classifies why a query was issued.
type TagKind int

const (
	TagUser TagKind = iota
	TagListTables
	TagInitialTable
	TagTableStructure
)

func (k TagKind) String() string {
	switch k {
	case TagUser:
		return "User"
	case TagListTables:
		return "ListTables"
	case TagInitialTable:
		return "InitialTable"
	case TagTableStructure:
		return "TableStructure"
	default:
		return fmt.Sprintf("TagKind(%d)", int(k))
	}
}

// TableRef names a table. An empty Schema means unqualified.
type TableRef struct {
	Schema string
	Name   string
}

func (t TableRef) String() string {
	if t.Schema == "" {
		return t.Name
	}
	return t.Schema + "." + t.Name
}

// QueryTag travels with a request and its result so components can pick
// the results meant for them. It is comparable.
type QueryTag struct {
	Kind  TagKind
	Table TableRef
}

func UserTag() QueryTag                     { return QueryTag{Kind: TagUser} }
func ListTablesTag() QueryTag               { return QueryTag{Kind: TagListTables} }
func InitialTableTag(t TableRef) QueryTag   { return QueryTag{Kind: TagInitialTable, Table: t} }
func TableStructureTag(t TableRef) QueryTag { return QueryTag{Kind: TagTableStructure, Table: t} }

// IsUserFacing reports whether the result belongs in the results view and
// the message feed.
func (t QueryTag) IsUserFacing() bool {
	return t.Kind == TagUser || t.Kind == TagInitialTable
}

func (t QueryTag) String() string {
	switch t.Kind {
	case TagInitialTable, TagTableStructure:
		return fmt.Sprintf("%s(%s)", t.Kind, t.Table)
	default:
		return t.Kind.String()
	}
}

// QueryRequest is a statement plus its bound literal values.
type QueryRequest struct {
	Tag       QueryTag
	Statement string
	Params    []any
}

// NewUserQuery wraps text typed by the user.
func NewUserQuery(statement string) QueryRequest {
	return QueryRequest{Tag: UserTag(), Statement: statement}
}
