// Package linknx renders the group address table as linknx object
// definitions, one per address, whether or not the address belongs to a
// functional object.
package linknx
