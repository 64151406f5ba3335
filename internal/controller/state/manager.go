package state

import (
	"sync"
)

// Manager управляет состояниями диалогов по чатам
type Manager struct {
	mu     sync.RWMutex
	states map[int64]*ChatData // chatID -> ChatData
}

// NewManager создаёт новый менеджер состояний
func NewManager() *Manager {
	return &Manager{
		states: make(map[int64]*ChatData),
	}
}

// GetState получает текущее состояние чата
func (sm *Manager) GetState(chatID int64) UserState {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	if data, exists := sm.states[chatID]; exists {
		return data.State
	}
	return StateNone
}

// SetState устанавливает состояние чата, черновик сохраняется
func (sm *Manager) SetState(chatID int64, state UserState) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if state == StateNone {
		delete(sm.states, chatID)
		return
	}

	if data, exists := sm.states[chatID]; exists {
		data.State = state
		return
	}
	sm.states[chatID] = &ChatData{State: state}
}

// Draft возвращает копию черновика
func (sm *Manager) Draft(chatID int64) Draft {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	if data, exists := sm.states[chatID]; exists {
		return data.Draft
	}
	return Draft{}
}

// UpdateDraft изменяет черновик под блокировкой
func (sm *Manager) UpdateDraft(chatID int64, update func(d *Draft)) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	data, exists := sm.states[chatID]
	if !exists {
		data = &ChatData{State: StateNone}
		sm.states[chatID] = data
	}
	update(&data.Draft)
}

// Advance сохраняет поле черновика и переходит к следующему шагу
func (sm *Manager) Advance(chatID int64, next UserState, update func(d *Draft)) {
	sm.UpdateDraft(chatID, update)
	sm.SetState(chatID, next)
}

// ClearState очищает состояние и черновик чата
func (sm *Manager) ClearState(chatID int64) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	delete(sm.states, chatID)
}
