package entity

// RunState состояние прогона сравнения
type RunState string

const (
	StateInit        RunState = "init"        // Поиск файлов и подготовка
	StateMeasuring   RunState = "measuring"   // Расчёт метрик по парам
	StateAggregating RunState = "aggregating" // Подсчёт средних
	StateDone        RunState = "done"        // Прогон завершён
	StateFailed      RunState = "failed"      // Прогон прерван ошибкой
)

// Run представляет один прогон сравнения каталогов
type Run struct {
	ID      string         // идентификатор прогона в трекере
	State   RunState       // текущее состояние
	Results []MetricResult // метрики завершённых пар
}

// NewRun создаёт прогон в начальном состоянии
func NewRun(id string) *Run {
	return &Run{
		ID:    id,
		State: StateInit,
	}
}

// SetState обновляет состояние прогона
func (r *Run) SetState(state RunState) {
	r.State = state
}

// Record добавляет метрики очередной пары
func (r *Run) Record(result MetricResult) {
	r.Results = append(r.Results, result)
}

// Finished сообщает, находится ли прогон в конечном состоянии
func (r *Run) Finished() bool {
	return r.State == StateDone || r.State == StateFailed
}
