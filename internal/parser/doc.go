// Package parser 解析接口诊断输出中的文本块。
//
// 输入为按物理行切分的诊断文本。ExtractBlocks 截取起止标记之间的接口块，
// 其余函数从块中的错误行和 RX 行提取固定位置的计数。
// 位置偏移对应一种已知的设备输出格式，其他固件版本可能需要通过
// CounterOffsets 调整。
package parser
