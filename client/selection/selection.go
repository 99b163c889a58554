// Package selection tracks the multi-select set and resolves drop
// gestures into mutations.
package selection

import "sync"

// State is the controller's position in the gesture state machine
type State int

const (
	Idle State = iota
	Selecting
	Dragging
)

func (s State) String() string {
	switch s {
	case Selecting:
		return "selecting"
	case Dragging:
		return "dragging"
	default:
		return "idle"
	}
}

// Mutator is the slice of the mutation engine the controller drives
type Mutator interface {
	MovePebbles(ids []string, folderID string)
	DeletePebbles(ids []string)
	CreateFolder(name, parentID string, pebbleIDs []string) string
}

// Controller resolves clicks and drag gestures over pebbles. It holds
// no entity data itself, only ids.
type Controller struct {
	mu       sync.Mutex
	mutator  Mutator
	state    State
	selected []string
	dragging []string
	// viewFolderID is the folder currently open in the UI; groups
	// created by pebble-on-pebble drops land here
	viewFolderID string
}

// NewController creates a controller in the Idle state
func NewController(mutator Mutator) *Controller {
	return &Controller{mutator: mutator}
}

// SetView records which folder the user is looking at
func (c *Controller) SetView(folderID string) {
	c.mu.Lock()
	c.viewFolderID = folderID
	c.mu.Unlock()
}

// State reports the current machine state
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Selected returns the selection in click order
func (c *Controller) Selected() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.selected...)
}

// Click replaces the selection with the clicked item
func (c *Controller) Click(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.selected = []string{id}
	c.state = Selecting
}

// ModifierClick toggles the clicked item's membership
func (c *Controller) ModifierClick(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.toggleLocked(id)
}

// ShiftClick is additive like ModifierClick; contiguous range fill is
// deliberately not implemented
func (c *Controller) ShiftClick(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.toggleLocked(id)
}

func (c *Controller) toggleLocked(id string) {
	for i, sel := range c.selected {
		if sel == id {
			c.selected = append(c.selected[:i:i], c.selected[i+1:]...)
			if len(c.selected) == 0 {
				c.state = Idle
			}
			return
		}
	}
	c.selected = append(c.selected, id)
	c.state = Selecting
}

// DragStart begins a drag. Dragging a selected item carries the whole
// selection; dragging an unselected one resets the selection to it.
func (c *Controller) DragStart(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	carried := false
	for _, sel := range c.selected {
		if sel == id {
			carried = true
			break
		}
	}
	if !carried {
		c.selected = []string{id}
	}
	c.dragging = append([]string(nil), c.selected...)
	c.state = Dragging
}

// DropOnFolder moves the dragged set into the target folder; an empty
// target means the root (breadcrumb drop)
func (c *Controller) DropOnFolder(folderID string) {
	c.mu.Lock()
	ids := c.dragging
	c.clearLocked()
	c.mu.Unlock()
	if len(ids) == 0 {
		return
	}
	c.mutator.MovePebbles(ids, folderID)
}

// DropOnPebble groups the target and the dragged set into one new
// folder at the current view. This always creates a folder, never a
// plain move, even for a single unselected pebble dropped on another.
func (c *Controller) DropOnPebble(targetID string) string {
	c.mu.Lock()
	members := []string{targetID}
	for _, id := range c.dragging {
		if id != targetID {
			members = append(members, id)
		}
	}
	parentID := c.viewFolderID
	c.clearLocked()
	c.mu.Unlock()

	if len(members) < 2 {
		return ""
	}
	return c.mutator.CreateFolder("", parentID, members)
}

// DropOnTrash soft-deletes the dragged set
func (c *Controller) DropOnTrash() {
	c.mu.Lock()
	ids := c.dragging
	c.clearLocked()
	c.mu.Unlock()
	if len(ids) == 0 {
		return
	}
	c.mutator.DeletePebbles(ids)
}

// Cancel ends the drag with no mutation, keeping the selection
func (c *Controller) Cancel() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.dragging = nil
	if len(c.selected) > 0 {
		c.state = Selecting
	} else {
		c.state = Idle
	}
}

// Clear drops the selection entirely
func (c *Controller) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.clearLocked()
}

func (c *Controller) clearLocked() {
	c.selected = nil
	c.dragging = nil
	c.state = Idle
}
