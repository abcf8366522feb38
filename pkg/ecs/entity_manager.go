package ecs

import (
	"reflect"
	"slices"
)

// EntityID 是实体的唯一标识符
type EntityID uint64

// InvalidEntity 表示无效实体（ID 从 1 开始分配）
const InvalidEntity EntityID = 0

// EntityManager 管理所有实体、组件以及实体之间的父子关系
//
// 注意事项:
//   - 所有操作都在单一逻辑线程中执行（每个 tick 一次），不做加锁
//   - DestroyEntity 只做标记，真正删除发生在 RemoveMarkedEntities
type EntityManager struct {
	nextID uint64
	// 实体-组件映射: EntityID -> ComponentType -> Component实例
	components map[EntityID]map[reflect.Type]any
	// 父子关系
	parents  map[EntityID]EntityID
	children map[EntityID][]EntityID
	// 待删除的实体ID列表
	entitiesToDestroy []EntityID
}

// NewEntityManager 创建一个新的 EntityManager 实例
func NewEntityManager() *EntityManager {
	return &EntityManager{
		nextID:            1, // ID从1开始,0保留为无效ID
		components:        make(map[EntityID]map[reflect.Type]any),
		parents:           make(map[EntityID]EntityID),
		children:          make(map[EntityID][]EntityID),
		entitiesToDestroy: make([]EntityID, 0),
	}
}

// CreateEntity 创建新实体并返回唯一ID
func (em *EntityManager) CreateEntity() EntityID {
	id := EntityID(em.nextID)
	em.nextID++
	em.components[id] = make(map[reflect.Type]any)
	return id
}

// Exists 检查实体是否存在（已标记删除但尚未清理的实体仍然存在）
func (em *EntityManager) Exists(id EntityID) bool {
	_, ok := em.components[id]
	return ok
}

// WasAllocated 检查 ID 是否曾由 CreateEntity 分配（无论当前是否仍然存在）
func (em *EntityManager) WasAllocated(id EntityID) bool {
	return id != InvalidEntity && uint64(id) < em.nextID
}

// DestroyEntity 标记实体待删除(不立即删除)
func (em *EntityManager) DestroyEntity(id EntityID) {
	if slices.Contains(em.entitiesToDestroy, id) {
		return
	}
	em.entitiesToDestroy = append(em.entitiesToDestroy, id)
}

// DestroyEntityRecursive 标记实体及其所有后代待删除
func (em *EntityManager) DestroyEntityRecursive(id EntityID) {
	for _, child := range em.children[id] {
		em.DestroyEntityRecursive(child)
	}
	em.DestroyEntity(id)
}

// IsMarkedForDestroy 检查实体是否已被标记删除
func (em *EntityManager) IsMarkedForDestroy(id EntityID) bool {
	return slices.Contains(em.entitiesToDestroy, id)
}

// AddComponent 为实体添加组件
func (em *EntityManager) AddComponent(id EntityID, component any) {
	componentType := reflect.TypeOf(component)
	if compMap, exists := em.components[id]; exists {
		compMap[componentType] = component
	}
}

// RemoveComponent 从实体移除指定类型的组件
func (em *EntityManager) RemoveComponent(id EntityID, componentType reflect.Type) {
	if compMap, exists := em.components[id]; exists {
		delete(compMap, componentType)
	}
}

// GetComponent 获取实体的特定类型组件
func (em *EntityManager) GetComponent(id EntityID, componentType reflect.Type) (any, bool) {
	if compMap, exists := em.components[id]; exists {
		if comp, found := compMap[componentType]; found {
			return comp, true
		}
	}
	return nil, false
}

// HasComponent 检查实体是否拥有特定类型组件
func (em *EntityManager) HasComponent(id EntityID, componentType reflect.Type) bool {
	if compMap, exists := em.components[id]; exists {
		_, found := compMap[componentType]
		return found
	}
	return false
}

// AddChild 将 child 挂到 parent 下（child 原有父节点会被替换）
// 任一实体不存在时不做任何事
func (em *EntityManager) AddChild(parent, child EntityID) {
	if !em.Exists(parent) || !em.Exists(child) || parent == child {
		return
	}
	em.detach(child)
	em.parents[child] = parent
	em.children[parent] = append(em.children[parent], child)
}

// RemoveChild 解除父子关系，child 本身保留
func (em *EntityManager) RemoveChild(parent, child EntityID) {
	if p, ok := em.parents[child]; ok && p == parent {
		em.detach(child)
	}
}

// GetChildren 返回实体的子实体列表（按挂载顺序，返回副本）
func (em *EntityManager) GetChildren(id EntityID) []EntityID {
	return slices.Clone(em.children[id])
}

// GetParent 返回实体的父实体
func (em *EntityManager) GetParent(id EntityID) (EntityID, bool) {
	p, ok := em.parents[id]
	return p, ok
}

func (em *EntityManager) detach(child EntityID) {
	parent, ok := em.parents[child]
	if !ok {
		return
	}
	delete(em.parents, child)
	siblings := em.children[parent]
	if i := slices.Index(siblings, child); i >= 0 {
		siblings = slices.Delete(siblings, i, i+1)
	}
	if len(siblings) == 0 {
		delete(em.children, parent)
	} else {
		em.children[parent] = siblings
	}
}

// RemoveMarkedEntities 清理所有标记删除的实体
// 被删除实体会从父节点的子列表中移除；其子实体成为孤儿（由 DestroyEntityRecursive 负责级联）
func (em *EntityManager) RemoveMarkedEntities() {
	for _, id := range em.entitiesToDestroy {
		em.detach(id)
		for _, child := range em.children[id] {
			delete(em.parents, child)
		}
		delete(em.children, id)
		delete(em.components, id)
	}
	em.entitiesToDestroy = em.entitiesToDestroy[:0] // 清空切片
}

// EntityCount 返回当前实体数量
func (em *EntityManager) EntityCount() int {
	return len(em.components)
}

// GetEntitiesWith 查询拥有指定组件类型组合的所有实体
// 参数: componentTypes ...reflect.Type - 需要的组件类型列表
// 返回: []EntityID - 满足条件的实体ID列表（按ID升序）
func (em *EntityManager) GetEntitiesWith(componentTypes ...reflect.Type) []EntityID {
	result := make([]EntityID, 0)

	for id, compMap := range em.components {
		hasAll := true
		for _, ct := range componentTypes {
			if _, found := compMap[ct]; !found {
				hasAll = false
				break
			}
		}
		if hasAll {
			result = append(result, id)
		}
	}

	slices.Sort(result)
	return result
}
