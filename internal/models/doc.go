// Package models implements the two climate models and the closed-form
// mapping between their parameterizations.
//
// [TwoLayer] integrates an upper and a lower ocean layer with forward Euler
// steps. [ImpulseResponse] integrates two independent exponentially decaying
// boxes. With no state dependence (a = 0) the two are different
// discretizations of the same pair of coupled linear ODEs, and
// [TwoLayerToImpulseResponse] / [ImpulseResponseToTwoLayer] convert between
// them.
//
// Feedback sign convention: the radiative response is subtracted,
// lambda_now = lambda0 - a*T_upper, so lambda0 > 0 and ECS = f2x/lambda0.
package models
