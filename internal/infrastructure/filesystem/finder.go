package filesystem

import (
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/maruel/natural"

	"vision-measure/internal/domain/port"
)

// Finder ищет изображения в дереве каталогов
type Finder struct{}

// NewFinder создаёт поисковик файлов
func NewFinder() *Finder {
	return &Finder{}
}

// Find рекурсивно собирает файлы, имя которых подходит под *.<extension>,
// и сортирует полные пути в естественном порядке (img2 раньше img10).
// Символические ссылки на каталоги разворачиваются, каждый каталог обходится один раз.
// Скрытые файлы и каталоги пропускаются, как это делает glob.
func (f *Finder) Find(root, extension string) ([]string, error) {
	pattern := "*." + strings.TrimPrefix(extension, ".")
	if _, err := filepath.Match(pattern, ""); err != nil {
		return nil, err
	}

	w := &walker{pattern: pattern, visited: make(map[string]struct{})}
	if err := w.walk(root); err != nil {
		return nil, err
	}

	SortNatural(w.files)
	return w.files, nil
}

type walker struct {
	pattern string
	visited map[string]struct{}
	files   []string
}

// walk обходит реальный каталог root, а пути возвращает относительно имени root
func (w *walker) walk(root string) error {
	resolved, err := filepath.EvalSymlinks(root)
	if err != nil {
		return err
	}
	if _, seen := w.visited[resolved]; seen {
		return nil
	}
	w.visited[resolved] = struct{}{}

	return filepath.WalkDir(resolved, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		name := root
		if path != resolved {
			rel, err := filepath.Rel(resolved, path)
			if err != nil {
				return err
			}
			name = filepath.Join(root, rel)

			if strings.HasPrefix(d.Name(), ".") {
				if d.IsDir() {
					return filepath.SkipDir
				}
				return nil
			}
		}

		if d.Type()&fs.ModeSymlink != 0 {
			info, err := os.Stat(path)
			if err != nil {
				// битая ссылка
				return nil
			}
			if info.IsDir() {
				return w.walk(name)
			}
		} else if d.IsDir() {
			return nil
		}

		if ok, _ := filepath.Match(w.pattern, d.Name()); ok {
			w.files = append(w.files, name)
		}
		return nil
	})
}

// SortNatural сортирует строки с учётом чисел внутри них
func SortNatural(paths []string) {
	sort.SliceStable(paths, func(i, j int) bool {
		return natural.Less(paths[i], paths[j])
	})
}

// Проверка реализации интерфейса
var _ port.FileFinder = (*Finder)(nil)
