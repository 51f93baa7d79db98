package gift

// Group is one gift type section of a sheet.
type Group struct {
	Key         string
	Label       string
	Description string
	Visible     bool
	Powers      []Gift
}

// Sheet is the display-ready arrangement of an actor's gifts and rites.
type Sheet struct {
	Groups []Group
	Rites  []Gift
}

// Group returns the section for key.
func (s Sheet) Group(key string) (Group, bool) {
	for _, g := range s.Groups {
		if g.Key == key {
			return g, true
		}
	}
	return Group{}, false
}

// Prepare arranges items into one section per catalog gift type plus a rite
// list. Sections with at least one power become visible; so do the types
// listed in visible. Items with an empty type are left off the sheet; items
// with a type missing from the catalog get a section of their own after the
// catalog sections. Every section and the rite list are sorted with Sort.
//
// Postcondition: items is not modified.
func Prepare(catalog *Catalog, visible []string, items []Gift) Sheet {
	shown := make(map[string]bool, len(visible))
	for _, v := range visible {
		shown[v] = true
	}

	var sheet Sheet
	index := make(map[string]int)
	for _, td := range catalog.Types() {
		index[td.Key] = len(sheet.Groups)
		sheet.Groups = append(sheet.Groups, Group{
			Key:         td.Key,
			Label:       td.Name,
			Description: td.Description,
			Visible:     shown[td.Key],
		})
	}

	for _, it := range items {
		switch {
		case it.IsRite():
			sheet.Rites = append(sheet.Rites, it)
		case it.GiftType == "":
			continue
		default:
			i, ok := index[it.GiftType]
			if !ok {
				i = len(sheet.Groups)
				index[it.GiftType] = i
				sheet.Groups = append(sheet.Groups, Group{Key: it.GiftType, Label: it.GiftType})
			}
			sheet.Groups[i].Powers = append(sheet.Groups[i].Powers, it)
		}
	}

	for i := range sheet.Groups {
		if len(sheet.Groups[i].Powers) > 0 {
			sheet.Groups[i].Visible = true
			sheet.Groups[i].Powers = Sort(sheet.Groups[i].Powers)
		}
	}
	sheet.Rites = Sort(sheet.Rites)
	return sheet
}
