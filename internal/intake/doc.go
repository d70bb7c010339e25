// Package intake implements the seven-question skin profile questionnaire.
package intake
