// Package md2 implements the MD2 hash algorithm as defined in RFC 1319.
//
// MD2 is cryptographically broken and is provided only so legacy naming
// schemes that reference it keep working. New uses should pick SHA-256 or
// stronger.
package md2

import "hash"

// Size is the size of an MD2 checksum in bytes.
const Size = 16

// BlockSize is the block size of MD2 in bytes.
const BlockSize = 16

// piSubst is the substitution table derived from the digits of pi (RFC 1319).
var piSubst = [256]byte{
	41, 46, 67, 201, 162, 216, 124, 1, 61, 54, 84, 161, 236, 240, 6, 19,
	98, 167, 5, 243, 192, 199, 115, 140, 152, 147, 43, 217, 188, 76, 130, 202,
	30, 155, 87, 60, 253, 212, 224, 22, 103, 66, 111, 24, 138, 23, 229, 18,
	190, 78, 196, 214, 218, 158, 222, 73, 160, 251, 245, 142, 187, 47, 238, 122,
	169, 104, 121, 145, 21, 178, 7, 63, 148, 194, 16, 137, 11, 34, 95, 33,
	128, 127, 93, 154, 90, 144, 50, 39, 53, 62, 204, 231, 191, 247, 151, 3,
	255, 25, 48, 179, 72, 165, 181, 209, 215, 94, 146, 42, 172, 86, 170, 198,
	79, 184, 56, 210, 150, 164, 125, 182, 118, 252, 107, 226, 156, 116, 4, 241,
	69, 157, 112, 89, 100, 113, 135, 32, 134, 91, 207, 101, 230, 45, 168, 2,
	27, 96, 37, 173, 174, 176, 185, 246, 28, 70, 97, 105, 52, 64, 126, 15,
	85, 71, 163, 35, 221, 81, 175, 58, 195, 92, 249, 206, 186, 197, 234, 38,
	44, 83, 13, 110, 133, 40, 132, 9, 211, 223, 205, 244, 65, 129, 77, 82,
	106, 220, 55, 200, 108, 193, 171, 250, 36, 225, 123, 8, 12, 189, 177, 74,
	120, 136, 149, 139, 227, 99, 232, 109, 233, 203, 213, 254, 59, 0, 29, 57,
	242, 239, 183, 14, 102, 88, 208, 228, 166, 119, 114, 248, 235, 117, 75, 10,
	49, 68, 80, 180, 143, 237, 31, 26, 219, 153, 141, 51, 159, 17, 131, 20,
}

type digest struct {
	state    [Size]byte      // running digest state (X[0:16] in RFC terms)
	checksum [Size]byte      // running checksum block C
	buf      [BlockSize]byte // partial block buffer
	nx       int             // bytes currently buffered
}

// New returns a new hash.Hash computing the MD2 checksum.
func New() hash.Hash {
	d := new(digest)
	d.Reset()

	return d
}

func (d *digest) Reset() {
	*d = digest{}
}

func (d *digest) Size() int { return Size }

func (d *digest) BlockSize() int { return BlockSize }

func (d *digest) Write(p []byte) (int, error) {
	written := len(p)

	if d.nx > 0 {
		n := copy(d.buf[d.nx:], p)
		d.nx += n
		p = p[n:]

		if d.nx == BlockSize {
			d.block(d.buf[:])
			d.nx = 0
		}
	}

	for len(p) >= BlockSize {
		d.block(p[:BlockSize])
		p = p[BlockSize:]
	}

	if len(p) > 0 {
		d.nx = copy(d.buf[:], p)
	}

	return written, nil
}

func (d *digest) Sum(in []byte) []byte {
	// Operate on a copy so callers can keep writing afterwards.
	dd := *d

	// Pad with padLen bytes of value padLen (always 1..16), then fold in the
	// checksum block.
	padLen := BlockSize - dd.nx

	var padding [BlockSize]byte
	for i := 0; i < padLen; i++ {
		padding[i] = byte(padLen)
	}

	_, _ = dd.Write(padding[:padLen])

	sum := dd.checksum
	_, _ = dd.Write(sum[:])

	return append(in, dd.state[:]...)
}

// block folds one 16-byte block into the digest state and the checksum,
// following the reference implementation in RFC 1319.
func (d *digest) block(m []byte) {
	var x [48]byte

	copy(x[0:16], d.state[:])
	copy(x[16:32], m)

	for i := 0; i < Size; i++ {
		x[32+i] = d.state[i] ^ m[i]
	}

	var t byte

	for round := 0; round < 18; round++ {
		for j := 0; j < 48; j++ {
			x[j] ^= piSubst[t]
			t = x[j]
		}

		t += byte(round)
	}

	copy(d.state[:], x[0:16])

	t = d.checksum[Size-1]
	for i := 0; i < Size; i++ {
		d.checksum[i] ^= piSubst[m[i]^t]
		t = d.checksum[i]
	}
}
