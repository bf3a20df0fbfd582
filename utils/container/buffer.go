package container

import (
	"sync"
)

// Buffer 写入缓冲区
// 功能：收集来自其他协程的写入请求，等到Prepare时统一取出处理
// 说明：与信号灯的buffer写入思路一致，外部写入不会在一个仿真步中途改变状态
type Buffer[T any] struct {
	add      []T        // 待处理的元素列表
	addMutex sync.Mutex // 添加操作的互斥锁
}

// NewBuffer 创建写入缓冲区
func NewBuffer[T any]() *Buffer[T] {
	return &Buffer[T]{
		add: make([]T, 0),
	}
}

// Add 增加元素（等到Prepare时才会真正处理）
// 功能：将元素添加到待处理列表中
// 参数：value-要添加的元素
// 说明：使用互斥锁保护并发安全
func (b *Buffer[T]) Add(value T) {
	b.addMutex.Lock()
	defer b.addMutex.Unlock()
	b.add = append(b.add, value)
}

// Len 获取待处理元素数量
func (b *Buffer[T]) Len() int {
	b.addMutex.Lock()
	defer b.addMutex.Unlock()
	return len(b.add)
}

// Prepare 取出全部待处理元素
// 功能：按写入顺序返回所有待处理元素并清空缓冲区
// 返回：待处理元素列表，没有元素时返回空列表
func (b *Buffer[T]) Prepare() []T {
	b.addMutex.Lock()
	defer b.addMutex.Unlock()
	pending := b.add
	b.add = []T{}
	return pending
}
