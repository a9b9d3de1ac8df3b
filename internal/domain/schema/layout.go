package schema

import (
	"fmt"
	"sort"
	"strings"
)

// Field ustun nomi
type Field string

// Layout sheet ustunlari joylashuvi (versiyali)
type Layout struct {
	Sheet      string
	Version    int
	HeaderRows int
	Identity   Field
	Width      int
	Fields     map[Field]int
}

// Validate layout ni tekshiradi: ustunlar takrorlanmasin, Width dan oshmasin
func (l Layout) Validate() error {
	if strings.TrimSpace(l.Sheet) == "" {
		return fmt.Errorf("schema: sheet name is required")
	}
	if l.Width <= 0 {
		return fmt.Errorf("schema %s: width must be > 0", l.Sheet)
	}
	if l.HeaderRows < 0 {
		return fmt.Errorf("schema %s: header rows must be >= 0", l.Sheet)
	}
	if len(l.Fields) == 0 {
		return fmt.Errorf("schema %s: no fields", l.Sheet)
	}
	owners := make(map[int]Field, len(l.Fields))
	for _, name := range l.FieldNames() {
		off := l.Fields[name]
		if off < 0 || off >= l.Width {
			return fmt.Errorf("schema %s: field %s offset %d outside [0,%d)", l.Sheet, name, off, l.Width)
		}
		if prev, ok := owners[off]; ok {
			return fmt.Errorf("schema %s: fields %s and %s share offset %d", l.Sheet, prev, name, off)
		}
		owners[off] = name
	}
	if _, ok := l.Fields[l.Identity]; !ok {
		return fmt.Errorf("schema %s: identity field %q not defined", l.Sheet, l.Identity)
	}
	return nil
}

// Offset maydonning ustun indeksi
func (l Layout) Offset(f Field) (int, bool) {
	off, ok := l.Fields[f]
	return off, ok
}

// Has maydon shu layout da bormi
func (l Layout) Has(f Field) bool {
	_, ok := l.Fields[f]
	return ok
}

// FieldNames ustun tartibida
func (l Layout) FieldNames() []Field {
	names := make([]Field, 0, len(l.Fields))
	for name := range l.Fields {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		oi, oj := l.Fields[names[i]], l.Fields[names[j]]
		if oi == oj {
			return names[i] < names[j]
		}
		return oi < oj
	})
	return names
}

// Row bitta qator: Index 1 dan boshlanadi, Cells xom qiymatlar
type Row struct {
	Index int
	Cells []any
}

// Value maydon qiymati; qator qisqa bo'lsa yoki maydon noma'lum bo'lsa nil
func (r Row) Value(l Layout, f Field) any {
	off, ok := l.Fields[f]
	if !ok || off < 0 || off >= len(r.Cells) {
		return nil
	}
	return r.Cells[off]
}

// Registry sheet nomi bo'yicha layout lar
type Registry map[string]Layout

// NewRegistry layout larni tekshirib yig'adi
func NewRegistry(layouts ...Layout) (Registry, error) {
	reg := make(Registry, len(layouts))
	for _, l := range layouts {
		if err := l.Validate(); err != nil {
			return nil, err
		}
		if _, dup := reg[l.Sheet]; dup {
			return nil, fmt.Errorf("schema: duplicate layout for sheet %s", l.Sheet)
		}
		reg[l.Sheet] = l
	}
	return reg, nil
}

func (r Registry) Get(sheet string) (Layout, bool) {
	l, ok := r[sheet]
	return l, ok
}

// Default ichki INDENT va LIFT layout lari
func Default() Registry {
	reg, err := NewRegistry(IndentLayout(), LiftLayout())
	if err != nil {
		panic(err)
	}
	return reg
}
