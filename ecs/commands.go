package ecs

type taskKind uint8

const (
	taskSpawn taskKind = iota
	taskDespawn
	taskGrow
)

func (k taskKind) String() string {
	switch k {
	case taskSpawn:
		return "spawn"
	case taskDespawn:
		return "despawn"
	case taskGrow:
		return "grow"
	default:
		return "unknown"
	}
}

// task is one deferred entity lifecycle change.
type task struct {
	kind     taskKind
	entity   *Entity
	capacity int
}

// taskQueue buffers lifecycle changes until the entity manager flushes them.
// Tasks are applied in the order they were queued.
type taskQueue struct {
	tasks []task
}

func newTaskQueue() *taskQueue {
	return &taskQueue{tasks: make([]task, 0, 64)}
}

func (q *taskQueue) spawn(e *Entity) {
	q.tasks = append(q.tasks, task{kind: taskSpawn, entity: e})
}

func (q *taskQueue) despawn(e *Entity) {
	q.tasks = append(q.tasks, task{kind: taskDespawn, entity: e})
}

func (q *taskQueue) grow(capacity int) {
	q.tasks = append(q.tasks, task{kind: taskGrow, capacity: capacity})
}

func (q *taskQueue) Len() int {
	return len(q.tasks)
}

// drain passes every queued task to apply, then resets the buffer.
func (q *taskQueue) drain(apply func(t task)) int {
	n := len(q.tasks)
	for i := range q.tasks {
		apply(q.tasks[i])
		q.tasks[i] = task{}
	}
	q.tasks = q.tasks[:0]
	return n
}
