package generator

import "github.com/chriserin/ftgen/internal/model"

// effectiveTags is feature ∪ scenario ∪ block, first occurrence first.
func effectiveTags(doc *model.FeatureDocument, scenario, block model.Tags) model.Tags {
	return model.Union(doc.Tags, scenario, block)
}

// needsTagsArg decides the row shape for a whole outline: if any block that
// yields cases is tagged, every row carries a tags argument.
func needsTagsArg(blocks []model.ExamplesBlock) bool {
	for _, b := range blocks {
		if len(b.Rows) > 0 && !b.Tags.Empty() {
			return true
		}
	}
	return false
}
