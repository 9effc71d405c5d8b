package integrations

import (
	"fmt"
	"sync"
)

// RegistryInterface - реестр источников листов. Читает всегда активный
// источник, остальные лежат про запас (gviz в бою, мок в демо и тестах).
type RegistryInterface interface {
	// Register добавляет источник под его Name().
	Register(provider TableProvider) error

	// Get возвращает источник по имени.
	Get(name string) (TableProvider, error)

	// SetActive переключает чтение листов на другой источник.
	SetActive(name string) error

	// GetActive - источник, из которого сейчас читаются листы.
	GetActive() (TableProvider, error)
}

// Registry хранит источники листов по именам.
type Registry struct {
	providers map[string]TableProvider
	active    string
	mu        sync.RWMutex // переключение и чтение идут из разных запросов
}

// NewRegistry создаёт пустой реестр без активного источника.
func NewRegistry() RegistryInterface {
	return &Registry{
		providers: make(map[string]TableProvider),
	}
}

// Register: повторное имя - ошибка, источник не подменяется.
func (r *Registry) Register(provider TableProvider) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	name := provider.Name()
	if _, exists := r.providers[name]; exists {
		return fmt.Errorf("провайдер с именем '%s' уже зарегистрирован", name)
	}

	r.providers[name] = provider
	return nil
}

func (r *Registry) Get(name string) (TableProvider, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	provider, exists := r.providers[name]
	if !exists {
		return nil, fmt.Errorf("провайдер с именем '%s' не найден", name)
	}
	return provider, nil
}

// SetActive: имя берётся из SHEETS_PROVIDER.
func (r *Registry) SetActive(name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	// активным можно сделать только зарегистрированный источник

	if _, exists := r.providers[name]; !exists {
		return fmt.Errorf("невозможно установить активным провайдера '%s': он не зарегистрирован", name)
	}

	r.active = name
	return nil
}

func (r *Registry) GetActive() (TableProvider, error) {
	// имя копируется под RLock, сам поиск идёт через Get
	r.mu.RLock()
	activeName := r.active
	r.mu.RUnlock()

	if activeName == "" {
		return nil, fmt.Errorf("активный провайдер не установлен")
	}

	return r.Get(activeName)
}
