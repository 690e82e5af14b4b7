// Package tables contains lookup tables for AAC decoding.
//
// This includes sample rate tables, scalefactor band tables,
// and inverse quantization tables.
//
// Ported from: ~/dev/faad2/libfaad/common.c, iq_table.h
package tables
