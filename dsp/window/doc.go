// Package window generates tapering windows for segment-based spectral
// estimation.
//
// Windows come in two forms. The symmetric form is used for filter design and
// display. The periodic form, selected with [WithPeriodic], drops the final
// sample of an N+1 symmetric window and is the form Welch-style estimators
// expect.
package window
