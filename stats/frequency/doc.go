// Package frequency summarizes power spectral densities: peak, integrated
// variance and spectral shape descriptors on an explicit frequency axis.
package frequency
