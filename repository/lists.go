package repository

import (
	"fmt"
	"math"
	"sort"

	"github.com/amonks/tasks/store"
	"github.com/amonks/tasks/task"
	"github.com/google/uuid"
)

// CreateList creates an empty list at the end of the list order.
func (r *Repository) CreateList(name string) (task.List, error) {
	if err := task.ValidateTitle(name); err != nil {
		return task.List{}, err
	}
	id, err := r.storage.CreateList(name)
	if err != nil {
		return task.List{}, err
	}
	return r.GetList(id)
}

// GetList materializes one list with its tasks in display order.
func (r *Repository) GetList(listID uuid.UUID) (task.List, error) {
	entries, err := r.storage.ListLists()
	if err != nil {
		return task.List{}, err
	}
	for _, entry := range entries {
		if entry.ID == listID {
			return r.materialize(entry)
		}
	}
	return task.List{}, fmt.Errorf("%w: %s", task.ErrListNotFound, listID)
}

// GetLists materializes every list, sorted by the workspace list order.
// Lists missing from the order come last, in directory order.
func (r *Repository) GetLists() ([]task.List, error) {
	entries, err := r.storage.ListLists()
	if err != nil {
		return nil, err
	}
	ws, err := r.storage.ReadWorkspaceMetadata()
	if err != nil {
		return nil, err
	}

	lists := make([]task.List, 0, len(entries))
	for _, entry := range entries {
		l, err := r.materialize(entry)
		if err != nil {
			return nil, err
		}
		lists = append(lists, l)
	}

	position := make(map[uuid.UUID]int, len(ws.ListOrder))
	for i, id := range ws.ListOrder {
		if _, ok := position[id]; !ok {
			position[id] = i
		}
	}
	rank := func(id uuid.UUID) int {
		if p, ok := position[id]; ok {
			return p
		}
		return math.MaxInt
	}
	sort.SliceStable(lists, func(i, j int) bool {
		return rank(lists[i].ID) < rank(lists[j].ID)
	})
	return lists, nil
}

func (r *Repository) materialize(entry store.ListEntry) (task.List, error) {
	meta, err := r.storage.ReadListMetadata(entry.ID)
	if err != nil {
		return task.List{}, err
	}
	tasks, err := r.storage.ListTasks(entry.ID)
	if err != nil {
		return task.List{}, err
	}
	return task.List{
		ID:             entry.ID,
		Title:          entry.Name,
		Tasks:          orderTasks(tasks, meta.TaskOrder),
		CreatedAt:      meta.CreatedAt,
		UpdatedAt:      meta.UpdatedAt,
		GroupByDueDate: meta.GroupByDueDate,
		Archived:       meta.Archived,
	}, nil
}

// DeleteList removes the list and all its tasks.
func (r *Repository) DeleteList(listID uuid.UUID) error {
	return r.storage.DeleteList(listID)
}

// RenameList changes the list's display name.
func (r *Repository) RenameList(listID uuid.UUID, name string) error {
	if err := task.ValidateTitle(name); err != nil {
		return err
	}
	if err := r.storage.RenameList(listID, name); err != nil {
		return err
	}
	return r.updateListMetadata(listID, func(*task.ListMetadata) {})
}

// ArchiveList sets the list's archived flag.
func (r *Repository) ArchiveList(listID uuid.UUID, archived bool) error {
	return r.updateListMetadata(listID, func(meta *task.ListMetadata) {
		meta.Archived = archived
	})
}

// SetGroupByDueDate sets whether the list groups tasks by due date.
func (r *Repository) SetGroupByDueDate(listID uuid.UUID, enabled bool) error {
	return r.updateListMetadata(listID, func(meta *task.ListMetadata) {
		meta.GroupByDueDate = enabled
	})
}

// GroupByDueDate reports whether the list groups tasks by due date.
func (r *Repository) GroupByDueDate(listID uuid.UUID) (bool, error) {
	meta, err := r.storage.ReadListMetadata(listID)
	if err != nil {
		return false, err
	}
	return meta.GroupByDueDate, nil
}

func (r *Repository) updateListMetadata(listID uuid.UUID, fn func(*task.ListMetadata)) error {
	meta, err := r.storage.ReadListMetadata(listID)
	if err != nil {
		return err
	}
	fn(&meta)
	meta.Touch(r.now())
	return r.storage.WriteListMetadata(meta)
}

// ReorderList moves the list to position in the workspace list order.
func (r *Repository) ReorderList(listID uuid.UUID, position int) error {
	if _, err := r.storage.ReadListMetadata(listID); err != nil {
		return err
	}
	ws, err := r.storage.ReadWorkspaceMetadata()
	if err != nil {
		return err
	}
	ws.ListOrder = task.MoveID(ws.ListOrder, listID, position)
	return r.storage.WriteWorkspaceMetadata(ws)
}

// GetListOrder returns the workspace list order.
func (r *Repository) GetListOrder() ([]uuid.UUID, error) {
	ws, err := r.storage.ReadWorkspaceMetadata()
	if err != nil {
		return nil, err
	}
	return ws.ListOrder, nil
}

// FindListByName returns the ID of the first list whose name is exactly name.
func (r *Repository) FindListByName(name string) (uuid.UUID, error) {
	entries, err := r.storage.ListLists()
	if err != nil {
		return uuid.Nil, err
	}
	for _, entry := range entries {
		if entry.Name == name {
			return entry.ID, nil
		}
	}
	return uuid.Nil, fmt.Errorf("%w: %q", ErrListNameNotFound, name)
}

// LastOpenedList returns the workspace's last opened list, if any.
func (r *Repository) LastOpenedList() (*uuid.UUID, error) {
	ws, err := r.storage.ReadWorkspaceMetadata()
	if err != nil {
		return nil, err
	}
	return ws.LastOpenedList, nil
}

// SetLastOpenedList records listID as the last opened list.
func (r *Repository) SetLastOpenedList(listID uuid.UUID) error {
	if _, err := r.storage.ReadListMetadata(listID); err != nil {
		return err
	}
	ws, err := r.storage.ReadWorkspaceMetadata()
	if err != nil {
		return err
	}
	opened := listID
	ws.LastOpenedList = &opened
	return r.storage.WriteWorkspaceMetadata(ws)
}

// DefaultList returns the last opened list if it still exists, and the
// first list in display order otherwise.
func (r *Repository) DefaultList() (uuid.UUID, error) {
	entries, err := r.storage.ListLists()
	if err != nil {
		return uuid.Nil, err
	}
	ws, err := r.storage.ReadWorkspaceMetadata()
	if err != nil {
		return uuid.Nil, err
	}
	exists := make(map[uuid.UUID]bool, len(entries))
	for _, entry := range entries {
		exists[entry.ID] = true
	}
	if ws.LastOpenedList != nil && exists[*ws.LastOpenedList] {
		return *ws.LastOpenedList, nil
	}
	for _, id := range ws.ListOrder {
		if exists[id] {
			return id, nil
		}
	}
	if len(entries) > 0 {
		return entries[0].ID, nil
	}
	return uuid.Nil, fmt.Errorf("%w: workspace has no lists", task.ErrListNotFound)
}
