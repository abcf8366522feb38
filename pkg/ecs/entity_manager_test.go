package ecs

import (
	"reflect"
	"testing"
)

// 测试组件类型定义
type testSectionComponent struct {
	Text string
}

type testMarkerComponent struct{}

func TestCreateEntity(t *testing.T) {
	em := NewEntityManager()
	id1 := em.CreateEntity()
	id2 := em.CreateEntity()

	// 测试实体ID唯一性
	if id1 == id2 {
		t.Error("Entity IDs should be unique")
	}

	// 测试ID从1开始
	if id1 != 1 {
		t.Errorf("First entity ID should be 1, got %d", id1)
	}

	if !em.Exists(id1) || !em.Exists(id2) {
		t.Error("Created entities should exist")
	}
	if em.Exists(InvalidEntity) {
		t.Error("InvalidEntity should never exist")
	}
}

func TestAddAndGetComponent(t *testing.T) {
	em := NewEntityManager()
	id := em.CreateEntity()

	em.AddComponent(id, &testSectionComponent{Text: "hello"})

	comp, found := em.GetComponent(id, reflect.TypeOf(&testSectionComponent{}))
	if !found {
		t.Fatal("Component should be found")
	}
	if got := comp.(*testSectionComponent).Text; got != "hello" {
		t.Errorf("Component data mismatch, expected hello, got %q", got)
	}

	// 泛型版本与反射版本读取到同一个组件
	typed, ok := GetComponent[*testSectionComponent](em, id)
	if !ok || typed != comp {
		t.Error("GetComponent[T] should return the same component instance")
	}
}

func TestGenericAddRemove(t *testing.T) {
	em := NewEntityManager()
	id := em.CreateEntity()

	AddComponent(em, id, &testMarkerComponent{})
	if !HasComponent[*testMarkerComponent](em, id) {
		t.Fatal("Should have marker after AddComponent[T]")
	}

	RemoveComponent[*testMarkerComponent](em, id)
	if HasComponent[*testMarkerComponent](em, id) {
		t.Error("Marker should be removed")
	}

	// 对不存在的实体添加组件不会创建实体
	AddComponent(em, EntityID(99), &testMarkerComponent{})
	if em.Exists(EntityID(99)) {
		t.Error("AddComponent must not create entities")
	}
}

func TestDestroyEntity(t *testing.T) {
	em := NewEntityManager()
	id := em.CreateEntity()
	em.AddComponent(id, &testSectionComponent{})

	// 标记删除
	em.DestroyEntity(id)
	em.DestroyEntity(id) // 重复标记无副作用

	// 清理前实体仍存在
	if !em.Exists(id) || !em.IsMarkedForDestroy(id) {
		t.Error("Entity should still exist (marked) before cleanup")
	}

	// 清理后实体消失
	em.RemoveMarkedEntities()
	if em.Exists(id) {
		t.Error("Entity should be removed after cleanup")
	}
	if em.IsMarkedForDestroy(id) {
		t.Error("Destroy list should be empty after cleanup")
	}
}

func TestWasAllocated(t *testing.T) {
	em := NewEntityManager()
	if em.WasAllocated(InvalidEntity) {
		t.Error("InvalidEntity is never allocated")
	}

	id := em.CreateEntity()
	if !em.WasAllocated(id) {
		t.Error("created entity should be allocated")
	}
	if em.WasAllocated(id + 1) {
		t.Error("future ID should not be allocated")
	}

	// 删除后仍视为分配过，ID 不会复用
	em.DestroyEntity(id)
	em.RemoveMarkedEntities()
	if em.Exists(id) || !em.WasAllocated(id) {
		t.Error("removed entity should not exist but remain allocated")
	}
	if next := em.CreateEntity(); next == id {
		t.Errorf("entity ID %d reused", id)
	}
}

func TestGetEntitiesWith(t *testing.T) {
	em := NewEntityManager()

	id1 := em.CreateEntity()
	em.AddComponent(id1, &testSectionComponent{})
	em.AddComponent(id1, &testMarkerComponent{})

	id2 := em.CreateEntity()
	em.AddComponent(id2, &testSectionComponent{})

	id3 := em.CreateEntity()
	em.AddComponent(id3, &testMarkerComponent{})

	entities := GetEntitiesWith2[*testSectionComponent, *testMarkerComponent](em)
	if len(entities) != 1 || entities[0] != id1 {
		t.Errorf("Expected only id1, got %v", entities)
	}

	sections := GetEntitiesWith1[*testSectionComponent](em)
	if len(sections) != 2 || sections[0] != id1 || sections[1] != id2 {
		t.Errorf("Expected [id1 id2] in ID order, got %v", sections)
	}
}

func TestHierarchy(t *testing.T) {
	em := NewEntityManager()
	parent := em.CreateEntity()
	a := em.CreateEntity()
	b := em.CreateEntity()

	em.AddChild(parent, a)
	em.AddChild(parent, b)

	children := em.GetChildren(parent)
	if len(children) != 2 || children[0] != a || children[1] != b {
		t.Fatalf("Expected children [a b], got %v", children)
	}
	if p, ok := em.GetParent(a); !ok || p != parent {
		t.Error("Parent of a should be parent")
	}

	// 重新挂载到另一个父节点
	other := em.CreateEntity()
	em.AddChild(other, a)
	if got := em.GetChildren(parent); len(got) != 1 || got[0] != b {
		t.Errorf("a should be detached from old parent, got %v", got)
	}

	em.RemoveChild(other, a)
	if _, ok := em.GetParent(a); ok {
		t.Error("a should have no parent after RemoveChild")
	}

	// 子实体被删除后从父节点列表中移除
	em.DestroyEntity(b)
	em.RemoveMarkedEntities()
	if got := em.GetChildren(parent); len(got) != 0 {
		t.Errorf("Destroyed child should be removed from parent, got %v", got)
	}
}

func TestDestroyEntityRecursive(t *testing.T) {
	em := NewEntityManager()
	root := em.CreateEntity()
	child := em.CreateEntity()
	grandchild := em.CreateEntity()
	em.AddChild(root, child)
	em.AddChild(child, grandchild)

	em.DestroyEntityRecursive(root)
	em.RemoveMarkedEntities()

	for _, id := range []EntityID{root, child, grandchild} {
		if em.Exists(id) {
			t.Errorf("Entity %d should be destroyed", id)
		}
	}
	if em.EntityCount() != 0 {
		t.Errorf("Expected 0 entities, got %d", em.EntityCount())
	}
}

func TestChildrenWith(t *testing.T) {
	em := NewEntityManager()
	parent := em.CreateEntity()
	marked := em.CreateEntity()
	plain := em.CreateEntity()
	AddComponent(em, marked, &testMarkerComponent{})
	em.AddChild(parent, plain)
	em.AddChild(parent, marked)

	got := ChildrenWith[*testMarkerComponent](em, parent)
	if len(got) != 1 || got[0] != marked {
		t.Errorf("Expected [marked], got %v", got)
	}

	// 返回副本，修改不影响内部状态
	got[0] = InvalidEntity
	if em.GetChildren(parent)[1] != marked {
		t.Error("ChildrenWith must not alias internal storage")
	}
}
