package report

import (
	"encoding/json"
	"fmt"
	"strings"

	"fjacquet/sheet-ledger/internal/logging"

	"gopkg.in/yaml.v3"
)

// Format is an output encoding for reports.
type Format string

const (
	FormatJSON     Format = "json"
	FormatYAML     Format = "yaml"
	FormatMarkdown Format = "markdown"
)

// Formats lists the supported report formats.
var Formats = []Format{FormatJSON, FormatYAML, FormatMarkdown}

// ParseFormat accepts a format name case-insensitively; "md" is an alias
// for markdown.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatJSON, FormatYAML, FormatMarkdown:
		return f, nil
	case "md":
		return FormatMarkdown, nil
	default:
		return "", fmt.Errorf("unsupported report format: %s", s)
	}
}

// Section selects part of a dashboard.
type Section string

const (
	SectionAll          Section = "all"
	SectionSummary      Section = "summary"
	SectionMonthly      Section = "monthly"
	SectionCategories   Section = "categories"
	SectionTop          Section = "top"
	SectionTransactions Section = "transactions"
)

// summaryView is the serialized form of SectionSummary.
type summaryView struct {
	Preset        string  `json:"preset" yaml:"preset"`
	Range         string  `json:"range" yaml:"range"`
	LedgerSize    int     `json:"ledger_size" yaml:"ledger_size"`
	SelectedCount int     `json:"selected_count" yaml:"selected_count"`
	Summary       Summary `json:"summary" yaml:"summary"`
}

// Generator renders dashboards in the supported formats.
type Generator struct {
	logger logging.Logger
}

// NewGenerator creates a Generator.
func NewGenerator(logger logging.Logger) *Generator {
	return &Generator{
		logger: logging.OrDefault(logger).WithField(logging.FieldComponent, logging.ComponentReport),
	}
}

// Generate renders the whole dashboard.
func (g *Generator) Generate(d *Dashboard, format Format) ([]byte, error) {
	return g.GenerateSection(d, SectionAll, format)
}

// GenerateSection renders one section of the dashboard.
func (g *Generator) GenerateSection(d *Dashboard, section Section, format Format) ([]byte, error) {
	if d == nil {
		return nil, fmt.Errorf("dashboard cannot be nil")
	}

	switch format {
	case FormatJSON:
		v, err := sectionView(d, section)
		if err != nil {
			return nil, err
		}
		return g.generateJSON(v)
	case FormatYAML:
		v, err := sectionView(d, section)
		if err != nil {
			return nil, err
		}
		return g.generateYAML(v)
	case FormatMarkdown:
		return renderMarkdown(d, section)
	default:
		return nil, fmt.Errorf("unsupported report format: %s", format)
	}
}

func sectionView(d *Dashboard, section Section) (interface{}, error) {
	switch section {
	case SectionAll, "":
		return d, nil
	case SectionSummary:
		return summaryView{
			Preset:        string(d.Preset),
			Range:         d.Range.String(),
			LedgerSize:    d.LedgerSize,
			SelectedCount: d.SelectedCount,
			Summary:       d.Summary,
		}, nil
	case SectionMonthly:
		return d.Monthly, nil
	case SectionCategories:
		return d.Expenses, nil
	case SectionTop:
		return d.TopExpenses, nil
	case SectionTransactions:
		return d.Transactions, nil
	default:
		return nil, fmt.Errorf("unknown report section: %s", section)
	}
}

func (g *Generator) generateJSON(v interface{}) ([]byte, error) {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		g.logger.WithError(err).Error("Failed to marshal JSON report")
		return nil, fmt.Errorf("failed to marshal JSON report: %w", err)
	}
	return append(out, '\n'), nil
}

func (g *Generator) generateYAML(v interface{}) ([]byte, error) {
	out, err := yaml.Marshal(v)
	if err != nil {
		g.logger.WithError(err).Error("Failed to marshal YAML report")
		return nil, fmt.Errorf("failed to marshal YAML report: %w", err)
	}
	return out, nil
}
