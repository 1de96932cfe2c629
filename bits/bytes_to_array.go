package bits

import (
	"unsafe"
)

// MapBytesToArray reinterprets the raw buffer as a typed slice of count
// elements, without copying. The buffer must stay alive and unmodified for
// as long as the result is in use.
func MapBytesToArray[T any](data []byte, count int) []T {

	var sample T
	valueSize := int(unsafe.Sizeof(sample))

	if len(data) < count*valueSize {
		panic("not enough data")
	}

	if count == 0 {
		return nil
	}

	return unsafe.Slice((*T)(unsafe.Pointer(&data[0])), count)
}

// ArrayToBytes reinterprets a typed slice as its raw backing bytes
func ArrayToBytes[T any](arr []T) []byte {

	if len(arr) == 0 {
		return nil
	}

	var sample T
	valueSize := int(unsafe.Sizeof(sample))

	return unsafe.Slice((*byte)(unsafe.Pointer(&arr[0])), len(arr)*valueSize)
}
