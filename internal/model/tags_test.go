package model

import (
	"encoding/json"
	"testing"
)

// TestTags_OrderAndAbsentKeys 测试键顺序与缺失键
func TestTags_OrderAndAbsentKeys(t *testing.T) {
	tags := NewTags(
		TagValue{Key: "B", Value: "1"},
		TagValue{Key: "A", Value: "2"},
		TagValue{Key: "B", Value: "3"},
	)

	keys := tags.Keys()
	if len(keys) != 2 || keys[0] != "B" || keys[1] != "A" {
		t.Fatalf("Keys() = %v, want [B A]", keys)
	}
	if got := tags.Get("B"); got != "3" {
		t.Errorf("Get(B) = %q, want 3", got)
	}
	if got := tags.Get("missing"); got != "" {
		t.Errorf("Get(missing) = %q, want empty", got)
	}
	if _, ok := tags.Lookup("missing"); ok {
		t.Error("Lookup(missing) should report absent")
	}

	// Keys 返回副本
	keys[0] = "X"
	if tags.Keys()[0] != "B" {
		t.Error("Keys() must not expose internal slice")
	}
}

// TestTags_ZeroValue 测试零值可用
func TestTags_ZeroValue(t *testing.T) {
	var tags Tags
	if tags.Len() != 0 || tags.Get("x") != "" {
		t.Fatal("zero Tags should be empty")
	}
	b, err := json.Marshal(tags)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	if string(b) != "{}" {
		t.Errorf("json = %s, want {}", b)
	}
}

// TestResultRow_JSONOrder 测试导出行 JSON 保持列顺序
func TestResultRow_JSONOrder(t *testing.T) {
	row := ResultRow{Cells: NewTags(
		TagValue{Key: ColumnFieldCode, Value: "F1"},
		TagValue{Key: ColumnFormula, Value: "A+B"},
		TagValue{Key: "Zeta", Value: "TRUE"},
	)}

	b, err := json.Marshal(row)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	want := `{"FieldCode":"F1","Formula":"A+B","Zeta":"TRUE"}`
	if string(b) != want {
		t.Errorf("json = %s, want %s", b, want)
	}
}

// TestFieldRecord_Value 测试属性与子元素查找
func TestFieldRecord_Value(t *testing.T) {
	r := NewFieldRecord("F1", "",
		NewTags(TagValue{Key: "Kind", Value: "child"}),
		NewTags(TagValue{Key: "Kind", Value: "attr"}, TagValue{Key: "Code", Value: "F1"}),
	)
	if got := r.Value("Kind"); got != "child" {
		t.Errorf("Value(Kind) = %q", got)
	}
	if got := r.Value("@_Kind"); got != "attr" {
		t.Errorf("Value(@_Kind) = %q", got)
	}
	if got := r.Value("@_Missing"); got != "" {
		t.Errorf("Value(@_Missing) = %q", got)
	}
}
