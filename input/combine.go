package input

// Combine merges two devices as if both were the same physical device: an
// input counts when either one asserts it. Buttons are OR'd, analog axes take
// the larger value and keyboards take the union of held keys, with keys from
// b replacing those of a on a shared scan code.
//
// b is first converted to a's type. When that is impossible a is returned
// unchanged.
func Combine(a, b Device) Device {
	with, ok := b.Convert(a.kind)
	if !ok {
		return a
	}
	switch a.kind {
	case Nes:
		return NesDevice(a.nes.Combine(with.nes))
	case Controller:
		return ControllerDevice(a.controller.Combine(with.controller))
	case Keyboard:
		return KeyboardDevice(a.keyboard.Combine(with.keyboard))
	}
	return a
}
