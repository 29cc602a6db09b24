package module

// Directory is the in-memory filesystem handed to the compiler. Entries
// keep insertion order so walks are deterministic.
type Directory struct {
	keys    []string
	entries map[string]*entry
}

type entry struct {
	file  string
	dir   *Directory
	isDir bool
}

// NewDirectory creates an empty Directory.
func NewDirectory() *Directory {
	return &Directory{entries: make(map[string]*entry)}
}

// AddFile inserts (or replaces) a file.
func (d *Directory) AddFile(name, contents string) *Directory {
	d.insert(name, &entry{file: contents})
	return d
}

// AddDir inserts (or replaces) a subdirectory and returns it.
func (d *Directory) AddDir(name string) *Directory {
	sub := NewDirectory()
	d.insert(name, &entry{dir: sub, isDir: true})
	return sub
}

func (d *Directory) insert(name string, e *entry) {
	if _, ok := d.entries[name]; !ok {
		d.keys = append(d.keys, name)
	}
	d.entries[name] = e
}

// FlatFile is one walked file: its path segments and contents.
type FlatFile struct {
	Path     []string
	Contents string
}

// Walk flattens the tree depth-first in insertion order.
func (d *Directory) Walk() []FlatFile {
	var flat []FlatFile
	d.walk(nil, &flat)
	return flat
}

func (d *Directory) walk(prefix []string, out *[]FlatFile) {
	for _, key := range d.keys {
		e := d.entries[key]
		path := append(append([]string{}, prefix...), key)
		if e.isDir {
			e.dir.walk(path, out)
			continue
		}
		*out = append(*out, FlatFile{Path: path, Contents: e.file})
	}
}

// Len reports the number of direct entries.
func (d *Directory) Len() int { return len(d.keys) }
