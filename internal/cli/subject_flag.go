package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/noah-isme/gpa-tracker-api/internal/dto"
)

const subjectFlagUsage = "Subject as name:credit:grade (repeatable). Grades are case-sensitive, e.g. A or B+"

// parseSubjects turns repeated "name:credit:grade" flag values into subject
// inputs. The name may itself contain colons; credit and grade are taken from
// the last two fields. Grades are kept as typed so "a" scores like any other
// grade missing from the table.
func parseSubjects(raw []string) ([]dto.SubjectInput, error) {
	subjects := make([]dto.SubjectInput, 0, len(raw))
	for i, value := range raw {
		gradeSep := strings.LastIndex(value, ":")
		if gradeSep < 0 {
			return nil, fmt.Errorf("subject %d: want name:credit:grade, got %q", i+1, value)
		}
		creditSep := strings.LastIndex(value[:gradeSep], ":")
		if creditSep < 0 {
			return nil, fmt.Errorf("subject %d: want name:credit:grade, got %q", i+1, value)
		}
		credit, err := strconv.ParseFloat(strings.TrimSpace(value[creditSep+1:gradeSep]), 64)
		if err != nil {
			return nil, fmt.Errorf("subject %d: credit %q is not a number", i+1, value[creditSep+1:gradeSep])
		}
		subjects = append(subjects, dto.SubjectInput{
			Name:   value[:creditSep],
			Credit: credit,
			Grade:  strings.TrimSpace(value[gradeSep+1:]),
		})
	}
	return subjects, nil
}
