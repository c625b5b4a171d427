// Package load is the input boundary of the generator: it decodes an
// already-parsed schema document and a project configuration from YAML (or
// JSON, which yaml.v3 accepts) into the in-memory models the generation
// core consumes. It does not parse SQL DDL.
package load

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/apiforge/forge/compiler/gen"
	"github.com/apiforge/forge/schema"
)

type (
	// SchemaDoc is the wire shape of a schema document.
	SchemaDoc struct {
		Name      string        `yaml:"name"`
		Tables    []TableDoc    `yaml:"tables"`
		Functions []FunctionDoc `yaml:"functions,omitempty"`
	}

	// TableDoc is the wire shape of one table.
	TableDoc struct {
		Name        string          `yaml:"name"`
		Columns     []ColumnDoc     `yaml:"columns"`
		ForeignKeys []ForeignKeyDoc `yaml:"foreign_keys,omitempty"`
	}

	// ColumnDoc is the wire shape of one column.
	ColumnDoc struct {
		Name       string `yaml:"name"`
		Type       string `yaml:"type"`
		Nullable   bool   `yaml:"nullable,omitempty"`
		Default    string `yaml:"default,omitempty"`
		PrimaryKey bool   `yaml:"primary_key,omitempty"`
		Unique     bool   `yaml:"unique,omitempty"`
		Length     int    `yaml:"length,omitempty"`
	}

	// ForeignKeyDoc is the wire shape of one foreign key.
	ForeignKeyDoc struct {
		Column    string `yaml:"column"`
		RefTable  string `yaml:"references"`
		RefColumn string `yaml:"ref_column,omitempty"`
	}

	// FunctionDoc is the wire shape of one schema function.
	FunctionDoc struct {
		Name    string   `yaml:"name"`
		Returns string   `yaml:"returns,omitempty"`
		Args    []string `yaml:"args,omitempty"`
	}

	// ConfigDoc is the wire shape of a project configuration.
	ConfigDoc struct {
		ProjectName   string         `yaml:"project_name"`
		BasePackage   string         `yaml:"base_package"`
		Target        string         `yaml:"target"`
		Features      []string       `yaml:"features,omitempty"`
		FeatureParams map[string]any `yaml:"feature_params,omitempty"`
	}
)

// Schema decodes a schema document and builds the schema model. Structural
// invariants the generation core assumes are checked here: table and column
// names must be present and unique, and every foreign key must reference an
// existing table. A malformed document fails at this boundary instead of
// producing incomplete output downstream.
func Schema(data []byte) (*schema.Schema, error) {
	var doc SchemaDoc
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode schema document: %w", err)
	}
	return buildSchema(&doc)
}

// SchemaFile reads and decodes the schema document at the given path.
func SchemaFile(path string) (*schema.Schema, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read schema file: %w", err)
	}
	return Schema(data)
}

func buildSchema(doc *SchemaDoc) (*schema.Schema, error) {
	seen := make(map[string]struct{}, len(doc.Tables))
	tables := make([]*schema.Table, 0, len(doc.Tables))
	for _, td := range doc.Tables {
		if td.Name == "" {
			return nil, gen.NewSchemaError("", "", "table name cannot be empty", nil)
		}
		if _, ok := seen[td.Name]; ok {
			return nil, gen.NewSchemaError(td.Name, "", "table redeclared", nil)
		}
		seen[td.Name] = struct{}{}
		t := &schema.Table{Name: td.Name}
		cols := make(map[string]struct{}, len(td.Columns))
		for _, cd := range td.Columns {
			if cd.Name == "" {
				return nil, gen.NewSchemaError(td.Name, "", "column name cannot be empty", nil)
			}
			if _, ok := cols[cd.Name]; ok {
				return nil, gen.NewSchemaError(td.Name, cd.Name, "column redeclared", nil)
			}
			cols[cd.Name] = struct{}{}
			t.Columns = append(t.Columns, &schema.Column{
				Name:       cd.Name,
				Type:       schema.ParseColType(cd.Type),
				RawType:    cd.Type,
				Nullable:   cd.Nullable,
				Default:    cd.Default,
				PrimaryKey: cd.PrimaryKey,
				Unique:     cd.Unique,
				Length:     cd.Length,
			})
		}
		for _, fd := range td.ForeignKeys {
			if _, ok := cols[fd.Column]; !ok {
				return nil, gen.NewSchemaError(td.Name, fd.Column, "foreign key constrains an unknown column", nil)
			}
			refColumn := fd.RefColumn
			if refColumn == "" {
				refColumn = "id"
			}
			t.ForeignKeys = append(t.ForeignKeys, &schema.ForeignKey{
				Column:    fd.Column,
				RefTable:  fd.RefTable,
				RefColumn: refColumn,
			})
		}
		tables = append(tables, t)
	}
	fns := make([]*schema.Function, 0, len(doc.Functions))
	for _, fd := range doc.Functions {
		fns = append(fns, &schema.Function{Name: fd.Name, Returns: fd.Returns, Args: fd.Args})
	}
	s := schema.New(doc.Name, tables, fns...)
	// Unresolved foreign keys are a schema-level error.
	for _, t := range s.Tables {
		for _, fk := range t.ForeignKeys {
			if s.Table(fk.RefTable) == nil {
				return nil, gen.NewSchemaError(t.Name, fk.Column,
					fmt.Sprintf("foreign key references unknown table %q", fk.RefTable), nil)
			}
		}
	}
	return s, nil
}

// Config decodes a project configuration document. The target name is
// returned separately; binding it to a registered target is the caller's
// job.
func Config(data []byte) (*gen.Config, string, error) {
	var doc ConfigDoc
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, "", fmt.Errorf("decode config document: %w", err)
	}
	opts := []gen.Option{}
	if doc.ProjectName != "" {
		opts = append(opts, gen.WithProjectName(doc.ProjectName))
	}
	if doc.BasePackage != "" {
		opts = append(opts, gen.WithBasePackage(doc.BasePackage))
	}
	if len(doc.Features) > 0 {
		opts = append(opts, gen.WithFeatureNames(doc.Features...))
	}
	for k, v := range doc.FeatureParams {
		opts = append(opts, gen.WithFeatureParam(k, v))
	}
	c, err := gen.NewConfig(opts...)
	if err != nil {
		return nil, "", err
	}
	return c, doc.Target, nil
}

// ConfigFile reads and decodes the configuration document at the given path.
func ConfigFile(path string) (*gen.Config, string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, "", fmt.Errorf("read config file: %w", err)
	}
	return Config(data)
}
