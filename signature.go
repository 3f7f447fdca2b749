package toyourface

// commentSignature is the fragment of the host's NPC comment routine the
// scanner hunts for. It has been stable across every known revision:
//
//	F3 0F 59 F6     mulss  xmm6, xmm6     ; square the distance
//	0F B6 EB        movzx  ebp, bl        ; zero-extend result flag
//	B8 01 00 00 00  mov    eax, 1
//	0F 2F F0        comiss xmm6, xmm0     ; compare squared distance
//	0F 43 E8        cmovae ebp, eax       ; verdict by comparison
//
// The redirect overwrites exactly these bytes, so the trampoline must
// re-create their observable effects: EBP carries the verdict and EAX ends
// up holding 1.
var commentSignature = []byte{
	0xF3, 0x0F, 0x59, 0xF6,
	0x0F, 0xB6, 0xEB,
	0xB8, 0x01, 0x00, 0x00, 0x00,
	0x0F, 0x2F, 0xF0,
	0x0F, 0x43, 0xE8,
}

// Signature returns a copy of the compiled-in comment routine signature.
func Signature() []byte {
	return append([]byte(nil), commentSignature...)
}

// Scan window relative to the host module's base load address.
const (
	scanStartOffset = 0x1000
	scanSize        = 0x01000000 // 16 MiB
)
