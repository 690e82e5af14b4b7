// Package spectrum implements spectral processing for AAC decoding.
//
// This includes inverse quantization, scale factor application,
// M/S stereo, intensity stereo, PNS, and TNS.
//
// Ported from: ~/dev/faad2/libfaad/specrec.c, ms.c, is.c, pns.c, tns.c
package spectrum
