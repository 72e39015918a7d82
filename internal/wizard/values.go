package wizard

import "agrimarket/internal/media"

// Values holds everything entered so far, across all steps.
type Values struct {
	Text    map[string]string
	Checked map[string]bool
	Files   map[string]media.File
	Lists   map[string][]string
}

func newValues() Values {
	return Values{
		Text:    make(map[string]string),
		Checked: make(map[string]bool),
		Files:   make(map[string]media.File),
		Lists:   make(map[string][]string),
	}
}

func (v Values) clone() Values {
	out := newValues()
	for k, s := range v.Text {
		out.Text[k] = s
	}
	for k, b := range v.Checked {
		out.Checked[k] = b
	}
	for k, f := range v.Files {
		out.Files[k] = f
	}
	for k, l := range v.Lists {
		out.Lists[k] = append([]string(nil), l...)
	}
	return out
}

func (v Values) Get(name string) string {
	return v.Text[name]
}

func (v Values) HasFile(name string) bool {
	f, ok := v.Files[name]
	return ok && len(f.Data) > 0
}
