package hook

import (
	"bytes"
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"unsafe"

	"golang.org/x/arch/x86/x86asm"
)

// x86-64 general registers, numbered the way the instruction encoding
// numbers them. Values 8 and up need a REX.B prefix.
type reg byte

const (
	regRAX reg = 0
	regRCX reg = 1
	regRDX reg = 2
	regRBX reg = 3
	regRSP reg = 4
	regRBP reg = 5
	regRSI reg = 6
	regRDI reg = 7
	regR11 reg = 11
)

const (
	rexW = 0x48 // 64-bit operand size
	rexB = 0x41 // extends the r/m or opcode register field
	rex  = 0x40 // bare REX, selects SPL/BPL/SIL/DIL byte registers

	opcodePUSH     = 0x50 // PUSH r64, +r
	opcodePOP      = 0x58 // POP r64, +r
	opcodeMOVimm64 = 0xb8 // MOV r64, imm64 with REX.W, +r
	opcodeMOVimm32 = 0xb8 // MOV r32, imm32, +r
	opcodeMOVrm    = 0x8b // MOV r, r/m
	opcodeXORrm    = 0x31 // XOR r/m, r
	opcodeTESTrm8  = 0x84 // TEST r/m8, r8
	opcodeXCHGrm   = 0x87 // XCHG r/m, r
	opcodeGroupFF  = 0xff // CALL/JMP r/m64, selected by the reg field
	opcodeRET      = 0xc3
	opcodeNOP      = 0x90

	// 0F-prefixed
	opcodeSETNE = 0x95 // SETNE r/m8

	regModeDirect = 3

	groupCALL = 2 // FF /2
	groupJMP  = 4 // FF /4
)

func modrm(mode, regOp, rm byte) byte {
	return mode<<6 | regOp<<3 | rm
}

// assembler emits x86-64 machine code into a fixed-capacity buffer.
// Emitting past the capacity latches an overflow instead of growing:
// generated code must fit its executable buffer, and the overflow has to
// surface before anything is written to host memory.
type assembler struct {
	buf      []byte
	capacity int
	overflow bool
}

func newAssembler(capacity int) *assembler {
	return &assembler{buf: make([]byte, 0, capacity), capacity: capacity}
}

func (a *assembler) emit(bs ...byte) {
	if len(a.buf)+len(bs) > a.capacity {
		a.overflow = true
		return
	}
	a.buf = append(a.buf, bs...)
}

// code returns the emitted bytes, or ErrCodeTooLarge if any instruction
// would have run past the capacity.
func (a *assembler) code() ([]byte, error) {
	if a.overflow {
		return nil, ErrCodeTooLarge
	}
	return a.buf, nil
}

func (a *assembler) size() int { return len(a.buf) }

func (a *assembler) push(r reg) {
	if r >= 8 {
		a.emit(rexB, opcodePUSH+byte(r&7))
		return
	}
	a.emit(opcodePUSH + byte(r))
}

func (a *assembler) pop(r reg) {
	if r >= 8 {
		a.emit(rexB, opcodePOP+byte(r&7))
		return
	}
	a.emit(opcodePOP + byte(r))
}

// movRegImm64 loads a full 64-bit immediate. This is the only form that can
// carry an arbitrary absolute address, which is why the redirect and the
// callback call go through it.
func (a *assembler) movRegImm64(r reg, v uint64) {
	prefix := byte(rexW)
	if r >= 8 {
		prefix |= 0x01
	}
	var imm [8]byte
	binary.LittleEndian.PutUint64(imm[:], v)
	a.emit(append([]byte{prefix, opcodeMOVimm64 + byte(r&7)}, imm[:]...)...)
}

func (a *assembler) movEaxImm32(v uint32) {
	var imm [4]byte
	binary.LittleEndian.PutUint32(imm[:], v)
	a.emit(append([]byte{opcodeMOVimm32 + byte(regRAX)}, imm[:]...)...)
}

// movReg copies src into dst, both below R8.
func (a *assembler) movReg(dst, src reg) {
	a.emit(rexW, opcodeMOVrm, modrm(regModeDirect, byte(dst), byte(src)))
}

func (a *assembler) xorEbpEbp() {
	a.emit(opcodeXORrm, modrm(regModeDirect, byte(regRBP), byte(regRBP)))
}

func (a *assembler) testAlAl() {
	a.emit(opcodeTESTrm8, modrm(regModeDirect, byte(regRAX), byte(regRAX)))
}

// setneBpl sets BPL to 1 if ZF is clear. The bare REX prefix is what makes
// the r/m field mean BPL rather than CH.
func (a *assembler) setneBpl() {
	a.emit(rex, 0x0f, opcodeSETNE, modrm(regModeDirect, 0, byte(regRBP)))
}

// xchgRaxStackTop swaps RAX with the value at the top of the stack.
func (a *assembler) xchgRaxStackTop() {
	a.emit(rexW, opcodeXCHGrm, modrm(0, byte(regRAX), byte(regRSP)), 0x24)
}

func (a *assembler) callReg(r reg) {
	if r >= 8 {
		a.emit(rexB, opcodeGroupFF, modrm(regModeDirect, groupCALL, byte(r&7)))
		return
	}
	a.emit(opcodeGroupFF, modrm(regModeDirect, groupCALL, byte(r)))
}

func (a *assembler) jmpReg(r reg) {
	if r >= 8 {
		a.emit(rexB, opcodeGroupFF, modrm(regModeDirect, groupJMP, byte(r&7)))
		return
	}
	a.emit(opcodeGroupFF, modrm(regModeDirect, groupJMP, byte(r)))
}

func (a *assembler) ret() { a.emit(opcodeRET) }

func (a *assembler) nop() { a.emit(opcodeNOP) }

// disassemble renders machine code one instruction per line, for logs and
// for checking emitted sequences against the x86asm decoder.
func disassemble(code []byte) (string, error) {
	var buf bytes.Buffer

	base := uintptr(unsafe.Pointer(unsafe.SliceData(code)))
	for i := 0; i < len(code); {
		inst, err := x86asm.Decode(code[i:], 64)
		if err != nil {
			return "", fmt.Errorf("hook: decode error at offset %d: %w", i, err)
		}
		fmt.Fprintf(&buf, "0x%08x\t%-24s\t%s\n",
			base+uintptr(i), hex.EncodeToString(code[i:i+inst.Len]), inst.String())
		i += inst.Len
	}

	return buf.String(), nil
}
