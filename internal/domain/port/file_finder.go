package port

// FileFinder интерфейс поиска файлов изображений
type FileFinder interface {
	// Find рекурсивно ищет файлы *.<extension> и сортирует их в естественном порядке
	Find(root, extension string) ([]string, error)
}
