package rubric

import (
	"fmt"
	"strconv"

	"github.com/nao1215/sectioncheck/internal/model"
	"github.com/nao1215/sectioncheck/internal/standard"
)

// StructuralFindings reports the order check stored on r. Missing optional
// categories are informational; every other missing category is a finding of
// its own.
func StructuralFindings(r *model.Report, rb standard.Rubric) []model.Finding {
	findings := make([]model.Finding, 0, len(r.Violations)+len(r.Missing))

	for _, v := range r.Violations {
		f := model.NewFinding(model.FindingOrderViolation,
			fmt.Sprintf("%s appears after %s", v.Category.Title(), v.Previous.Title()),
			fmt.Sprintf("The %s section is ranked before %s in the canonical order but was found after it.",
				v.Category, v.Previous),
		)
		f.Category = v.Category
		f.Value = string(v.Previous)
		f.Location = "record position " + strconv.Itoa(v.Position)
		if d, ok := recordEntry(r, v.Category); ok {
			f.Location = blockLocation(d.Block)
		}
		findings = append(findings, f)
	}

	for _, c := range r.Missing {
		findingType := model.FindingMissingSection
		title := "Missing section: " + c.Title()
		if rb.IsOptional(c) {
			findingType = model.FindingMissingOptionalSection
			title = "Optional section absent: " + c.Title()
		}
		f := model.NewFinding(findingType, title,
			fmt.Sprintf("No block was classified as %s.", c))
		f.Category = c
		findings = append(findings, f)
	}

	if r.Record != nil {
		for _, d := range r.Record.Duplicates {
			f := model.NewFinding(model.FindingDuplicateSection,
				"Repeated section: "+d.Category.Title(),
				fmt.Sprintf("Block %d also matched %s (%q).", d.Block.Index, d.Category, d.Match),
			)
			f.Category = d.Category
			f.Value = strconv.Itoa(d.Block.Index)
			f.Location = blockLocation(d.Block)
			findings = append(findings, f)
		}
	}

	for _, c := range r.Unrecognized {
		f := model.NewFinding(model.FindingUnrecognizedCategory,
			"Unranked category: "+string(c),
			fmt.Sprintf("%s was detected but the canonical order does not rank it.", c),
		)
		f.Category = c
		if d, ok := recordEntry(r, c); ok {
			f.Location = blockLocation(d.Block)
		}
		findings = append(findings, f)
	}

	return findings
}

func recordEntry(r *model.Report, c model.Category) (model.Detection, bool) {
	if r.Record == nil {
		return model.Detection{}, false
	}
	return r.Record.Get(c)
}

// blockLocation renders a block as "<tag#id.class> (block N)".
func blockLocation(b model.Block) string {
	loc := "<" + b.Tag
	if b.ID != "" {
		loc += "#" + b.ID
	}
	if b.Class != "" {
		loc += " class=\"" + b.Class + "\""
	}
	return loc + "> (block " + strconv.Itoa(b.Index) + ")"
}
