// Package dataset normalizes the raw tabular corpus into record
// collections. It parses one job-role table, eight technical-skill
// competency fragments joined by a shared competency code, and one
// key/legend table.
package dataset

import (
	"bytes"
	"encoding/csv"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"

	"github.com/skillsnav/atlas/helper"
	"github.com/skillsnav/atlas/model"
)

// Processor parses the source corpus into normalized records.
type Processor struct {
	schemas *Schemas
	log     *slog.Logger
}

// NewProcessor creates a data processor. A nil schemas argument selects
// the default column mappings, a nil logger the default slog logger.
func NewProcessor(schemas *Schemas, logger *slog.Logger) *Processor {
	if schemas == nil {
		schemas = DefaultSchemas()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Processor{schemas: schemas, log: logger}
}

// ReadCorpus parses all corpus files into record collections. Any file
// or schema error aborts the read; nothing is partially applied.
func (p *Processor) ReadCorpus(paths model.CorpusPaths) (*model.Corpus, error) {
	if err := paths.Validate(); err != nil {
		return nil, helper.NewError("corpus paths validation", err)
	}

	jobRoles, err := p.readJobRoles(paths.JobRoles)
	if err != nil {
		return nil, err
	}

	skills, err := p.readSkillFragments(paths.Fragments)
	if err != nil {
		return nil, err
	}

	keys, err := p.readKeyLegend(paths.KeyLegend)
	if err != nil {
		return nil, err
	}

	p.log.Info("Read corpus",
		slog.Int("job_roles", len(jobRoles)),
		slog.Int("skills", len(skills)),
		slog.Int("legend_keys", len(keys)),
	)

	return &model.Corpus{JobRoles: jobRoles, Skills: skills, Keys: keys}, nil
}

// table is one decoded delimited file: a header and its data rows.
type table struct {
	file   string
	header []string
	rows   [][]string
}

// column resolves a named column to its index, or a SchemaError when
// the column is required and absent.
func (t *table) column(name string, required bool) (int, error) {
	for i, h := range t.header {
		if strings.EqualFold(strings.TrimSpace(h), name) {
			return i, nil
		}
	}
	if required {
		return -1, &model.SchemaError{File: t.file, Column: name}
	}
	return -1, nil
}

func cell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

// readTable reads a delimited file, decoding UTF-8 first and falling
// back to latin-1. An empty file yields an empty table, not an error.
func readTable(path string) (*table, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, &model.DataFormatError{File: path, Err: err}
	}

	raw = bytes.TrimPrefix(raw, []byte{0xEF, 0xBB, 0xBF})

	if !utf8.Valid(raw) {
		decoded, decErr := charmap.ISO8859_1.NewDecoder().Bytes(raw)
		if decErr != nil {
			return nil, &model.DataFormatError{File: path, Err: decErr}
		}
		raw = decoded
	}

	reader := csv.NewReader(bytes.NewReader(raw))
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	var records [][]string
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, &model.DataFormatError{File: path, Err: err}
		}
		records = append(records, record)
	}

	t := &table{file: path}
	if len(records) > 0 {
		t.header = records[0]
		t.rows = records[1:]
	}
	return t, nil
}

func (p *Processor) readJobRoles(path string) ([]*model.JobRoleRecord, error) {
	t, err := readTable(path)
	if err != nil {
		return nil, err
	}
	if len(t.header) == 0 {
		return nil, nil
	}

	s := p.schemas.JobRole
	trackCode, err := t.column(s.TrackCode, true)
	if err != nil {
		return nil, err
	}
	specialisation, err := t.column(s.Specialisation, true)
	if err != nil {
		return nil, err
	}
	track, _ := t.column(s.Track, false)
	description, _ := t.column(s.Description, false)
	skills, _ := t.column(s.Skills, false)

	var records []*model.JobRoleRecord
	for _, row := range t.rows {
		spec := cell(row, specialisation)
		if spec == "" {
			continue
		}
		records = append(records, &model.JobRoleRecord{
			Track:          cell(row, track),
			TrackCode:      cell(row, trackCode),
			Specialisation: spec,
			Description:    cell(row, description),
			Skills:         splitList(cell(row, skills)),
		})
	}
	return records, nil
}

// readSkillFragments parses all competency fragments and joins their
// rows by competency code into one record per skill.
func (p *Processor) readSkillFragments(paths []string) ([]*model.SkillCompetencyRecord, error) {
	byCode := make(map[string]*model.SkillCompetencyRecord)
	var order []string

	for _, path := range paths {
		t, err := readTable(path)
		if err != nil {
			return nil, err
		}
		if len(t.header) == 0 {
			continue
		}

		s := p.schemas.Fragment
		code, err := t.column(s.Code, true)
		if err != nil {
			return nil, err
		}
		level, err := t.column(s.Level, true)
		if err != nil {
			return nil, err
		}
		item, err := t.column(s.Item, true)
		if err != nil {
			return nil, err
		}
		title, _ := t.column(s.Title, false)
		description, _ := t.column(s.Description, false)
		classification, _ := t.column(s.Classification, false)

		for _, row := range t.rows {
			codeVal := cell(row, code)
			itemVal := cell(row, item)
			if codeVal == "" || itemVal == "" {
				continue
			}

			levelVal, err := strconv.Atoi(cell(row, level))
			if err != nil {
				p.log.Debug("Skipping fragment row with unparseable level",
					slog.String("file", path), slog.String("code", codeVal))
				continue
			}

			record, ok := byCode[codeVal]
			if !ok {
				record = &model.SkillCompetencyRecord{
					Code:   codeVal,
					Levels: make(map[int]*model.LevelItems),
				}
				byCode[codeVal] = record
				order = append(order, codeVal)
			}
			if record.Title == "" {
				record.Title = cell(row, title)
			}
			if record.Description == "" {
				record.Description = cell(row, description)
			}

			items := record.Levels[levelVal]
			if items == nil {
				items = &model.LevelItems{}
				record.Levels[levelVal] = items
			}
			if isAbility(cell(row, classification)) {
				items.Ability = append(items.Ability, itemVal)
			} else {
				items.Knowledge = append(items.Knowledge, itemVal)
			}
		}
	}

	records := make([]*model.SkillCompetencyRecord, 0, len(order))
	for _, code := range order {
		record := byCode[code]
		if record.Title == "" {
			record.Title = record.Code
		}
		records = append(records, record)
	}
	return records, nil
}

func (p *Processor) readKeyLegend(path string) ([]*model.KeyLegendRecord, error) {
	t, err := readTable(path)
	if err != nil {
		return nil, err
	}
	if len(t.header) == 0 {
		return nil, nil
	}

	s := p.schemas.KeyLegend
	key, err := t.column(s.Key, true)
	if err != nil {
		return nil, err
	}
	description, _ := t.column(s.Description, false)

	var records []*model.KeyLegendRecord
	for _, row := range t.rows {
		keyVal := cell(row, key)
		if keyVal == "" {
			continue
		}
		records = append(records, &model.KeyLegendRecord{
			Key:         keyVal,
			Description: cell(row, description),
		})
	}
	return records, nil
}

// splitList splits a comma-separated cell into trimmed entries.
func splitList(value string) []string {
	if value == "" {
		return nil
	}
	parts := strings.Split(value, ",")
	var out []string
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}

// isAbility classifies a knowledge/ability marker. Anything starting
// with "a" counts as ability, everything else defaults to knowledge.
func isAbility(classification string) bool {
	return strings.HasPrefix(strings.ToLower(strings.TrimSpace(classification)), "a")
}
