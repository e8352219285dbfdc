package model

import (
	"bytes"
	"encoding/json"
)

// Tags 有序的字符串映射（标签名 → 值）
// 不存在的键一律返回空字符串
type Tags struct {
	keys   []string
	values map[string]string
}

// TagValue 单个标签键值对
type TagValue struct {
	Key   string
	Value string
}

// NewTags 按给定顺序构建 Tags，重复键以后者为准但保留首次出现的位置
func NewTags(pairs ...TagValue) Tags {
	t := Tags{values: make(map[string]string, len(pairs))}
	for _, p := range pairs {
		t.set(p.Key, p.Value)
	}
	return t
}

func (t *Tags) set(key, value string) {
	if t.values == nil {
		t.values = make(map[string]string)
	}
	if _, ok := t.values[key]; !ok {
		t.keys = append(t.keys, key)
	}
	t.values[key] = value
}

// Get 获取值，不存在时返回 ""
func (t Tags) Get(key string) string {
	return t.values[key]
}

// Lookup 获取值并报告键是否存在
func (t Tags) Lookup(key string) (string, bool) {
	v, ok := t.values[key]
	return v, ok
}

// Keys 按插入顺序返回键（副本）
func (t Tags) Keys() []string {
	out := make([]string, len(t.keys))
	copy(out, t.keys)
	return out
}

// Len 键数量
func (t Tags) Len() int {
	return len(t.keys)
}

// MarshalJSON 按键顺序输出 JSON 对象
func (t Tags) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range t.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		kb, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		vb, err := json.Marshal(t.values[k])
		if err != nil {
			return nil, err
		}
		buf.Write(kb)
		buf.WriteByte(':')
		buf.Write(vb)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
