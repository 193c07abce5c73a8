package ventures

import (
	"fmt"
	"strings"

	"github.com/mitchellh/mapstructure"

	"github.com/spigell/idea-screener/internal/idea"
)

const statusInactive = "inactive"

// Company is a directory entry. Only the fields used for screening are decoded.
type Company struct {
	ID              string   `json:"id"`
	Slug            string   `json:"slug"`
	Name            string   `json:"name"`
	OneLiner        string   `json:"one_liner"`
	LongDescription string   `json:"long_description"`
	Website         string   `json:"website"`
	Industry        string   `json:"industry"`
	Subindustry     string   `json:"subindustry"`
	Tags            []string `json:"tags"`
	Batch           string   `json:"batch"`
	Status          string   `json:"status"`
	TeamSize        int      `json:"team_size"`
}

func decodeCompanies(items []any) ([]*Company, error) {
	companies := make([]*Company, 0, len(items))

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          "json",
		WeaklyTypedInput: true,
		Result:           &companies,
	})
	if err != nil {
		return nil, err
	}

	if err := decoder.Decode(items); err != nil {
		return nil, fmt.Errorf("decode companies: %w", err)
	}

	return companies, nil
}

// Idea converts the company into a corpus entry. Companies without a name yield nil.
func (c *Company) Idea() *idea.Idea {
	if c == nil || strings.TrimSpace(c.Name) == "" {
		return nil
	}

	description := strings.TrimSpace(c.LongDescription)
	if description == "" {
		description = strings.TrimSpace(c.OneLiner)
	}

	id := strings.TrimSpace(c.Slug)
	if id == "" {
		id = strings.TrimSpace(c.ID)
	}

	return &idea.Idea{
		ID:          id,
		Title:       strings.TrimSpace(c.Name),
		OneLiner:    strings.TrimSpace(c.OneLiner),
		Description: description,
		Industry:    idea.Join(c.Industry, c.Subindustry),
		Tags:        c.Tags,
		Inactive:    strings.EqualFold(strings.TrimSpace(c.Status), statusInactive),
	}
}
