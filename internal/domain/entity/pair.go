package entity

// ImagePair пара файлов с одинаковым порядковым номером в обоих каталогах
type ImagePair struct {
	Index int    // порядковый номер пары, он же шаг в трекере
	PathA string // файл из первого каталога
	PathB string // файл из второго каталога
}

// PairPaths попарно объединяет отсортированные списки.
// Если длины различаются, лишние файлы длинного списка отбрасываются.
func PairPaths(pathsA, pathsB []string) []ImagePair {
	n := min(len(pathsA), len(pathsB))
	pairs := make([]ImagePair, 0, n)
	for i := 0; i < n; i++ {
		pairs = append(pairs, ImagePair{Index: i, PathA: pathsA[i], PathB: pathsB[i]})
	}
	return pairs
}
